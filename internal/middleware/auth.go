// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type TokenContextKey string

var BearerTokenKey TokenContextKey = "clinicore_bearer_token"

// BearerToken stores the caller's bearer token in the request context. A
// missing or malformed header stores nothing; the staff service decides how
// to answer a caller without a token.
func BearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractBearer(r.Header.Get("Authorization"))
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), BearerTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractBearer returns the token of an "Authorization: Bearer <token>" value.
func ExtractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// TokenFromContext returns "" when BearerToken found no token.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(BearerTokenKey).(string)
	return token
}

package middleware

import (
	"net/http"

	"github.com/dangerclosesec/clinicore/internal/audit"
	chmw "github.com/go-chi/chi/v5/middleware"
)

// AuditMetadata records who sent the request so provisioning audit rows can
// be traced back to it. Mount it after chi's RequestID and RealIP.
func AuditMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.WithRequestMetadata(r.Context(), audit.RequestMetadata{
			RequestID: chmw.GetReqID(r.Context()),
			ClientIP:  r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

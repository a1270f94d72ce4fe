package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}
)

const corsMaxAge = 86400

// CORS echoes allow-listed origins and answers every other origin with "*".
// Preflight requests pass through so handlers can reply with their own body.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	known := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		known[origin] = true
	}

	listed := cors.New(corsOptions(allowedOrigins))
	wildcard := cors.New(corsOptions([]string{"*"}))

	return func(next http.Handler) http.Handler {
		listedNext := listed.Handler(next)
		wildcardNext := wildcard.Handler(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if known[r.Header.Get("Origin")] {
				listedNext.ServeHTTP(w, r)
				return
			}
			wildcardNext.ServeHTTP(w, r)
		})
	}
}

func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:     origins,
		AllowedMethods:     corsMethods,
		AllowedHeaders:     corsHeaders,
		MaxAge:             corsMaxAge,
		OptionsPassthrough: true,
	}
}

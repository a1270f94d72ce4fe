package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dangerclosesec/clinicore/internal/audit"
	"github.com/dangerclosesec/clinicore/internal/middleware"
	"github.com/go-chi/chi/v5"
	chmw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBearer(t *testing.T) {
	tests := map[string]string{
		"Bearer abc.def":     "abc.def",
		"bearer abc.def":     "abc.def",
		"  Bearer   abc.def": "abc.def",
		"Basic dXNlcg==":     "",
		"abc.def":            "",
		"":                   "",
	}

	for header, want := range tests {
		assert.Equal(t, want, middleware.ExtractBearer(header), "header %q", header)
	}
}

func TestBearerToken(t *testing.T) {
	var got string
	h := middleware.BearerToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.TokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/staff", nil)
	req.Header.Set("Authorization", "Bearer caller-token")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "caller-token", got)

	req = httptest.NewRequest(http.MethodPost, "/api/staff", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, got)
}

func TestAuditMetadata(t *testing.T) {
	var md audit.RequestMetadata
	r := chi.NewRouter()
	r.Use(chmw.RequestID)
	r.Use(middleware.AuditMetadata)
	r.Post("/api/staff", func(w http.ResponseWriter, r *http.Request) {
		md = audit.RequestMetadataFrom(r.Context())
	})

	req := httptest.NewRequest(http.MethodPost, "/api/staff", nil)
	req.RemoteAddr = "203.0.113.7:5123"
	req.Header.Set("User-Agent", "clinic-admin/1.0")
	req.Header.Set(chmw.RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", md.RequestID)
	assert.Equal(t, "203.0.113.7:5123", md.ClientIP)
	assert.Equal(t, "clinic-admin/1.0", md.UserAgent)
}

func TestCORS(t *testing.T) {
	handler := middleware.CORS([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/functions/v1/create-staff", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allow-listed origin is echoed", func(t *testing.T) {
		rec := preflight("http://localhost:5173")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("unknown origin falls back to wildcard", func(t *testing.T) {
		rec := preflight("https://elsewhere.example")

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/functions/v1/create-staff", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimitByIP(t *testing.T) {
	handler := middleware.RateLimitByIP(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/staff", nil)
		req.RemoteAddr = "198.51.100.4:4000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send().Code)
	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())

	unlimited := middleware.RateLimitByIP(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		unlimited.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/staff", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

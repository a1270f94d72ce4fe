package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dangerclosesec/clinicore/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveProvision(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveProvision(nil, 10*time.Millisecond)
	m.ObserveProvision(domain.ErrForbidden, time.Millisecond)
	m.ObserveProvision(fmt.Errorf("wrapped: %w", domain.ErrForbidden), time.Millisecond)
	m.ObserveProvision(errors.New("boom"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.provisions.WithLabelValues("succeeded", "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.provisions.WithLabelValues("failed", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.provisions.WithLabelValues("failed", "internal")))
}

func TestObserveCompensation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCompensation(nil)
	m.ObserveCompensation(errors.New("provider down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues("failed")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveProvision(nil, time.Second)
	m.ObserveCompensation(nil)
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/orgs/{orgID}/staff", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orgs/"+id+"/staff", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/orgs/{orgID}/staff", "403")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

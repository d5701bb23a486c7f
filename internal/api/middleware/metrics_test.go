package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type observed struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	calls    []observed
	inFlight int
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.calls = append(f.calls, observed{method: method, route: route, status: status})
}

func (f *fakeHTTPMetrics) IncInFlight() { f.inFlight++ }
func (f *fakeHTTPMetrics) DecInFlight() { f.inFlight-- }

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}

	router := mux.NewRouter()
	router.Use(Metrics(m))
	router.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/123", nil))

	assert.Equal(t, []observed{{method: "GET", route: "/bookings/{bookingId}", status: http.StatusNotFound}}, m.calls)
	assert.Equal(t, 0, m.inFlight)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

type observation struct {
	method, path string
	status       int
}

type fakeHTTPRecorder struct {
	seen []observation
}

func (f *fakeHTTPRecorder) HTTPRequest(method, path string, status int, _ time.Duration) {
	f.seen = append(f.seen, observation{method: method, path: path, status: status})
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	recorder := &fakeHTTPRecorder{}

	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/api/v1/company-transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/company-transactions/01HABC", nil))

	if len(recorder.seen) != 1 {
		t.Fatalf("expected one observation, got %d", len(recorder.seen))
	}

	got := recorder.seen[0]
	if got.path != "/api/v1/company-transactions/{id}" {
		t.Fatalf("expected route pattern, got %q", got.path)
	}
	if got.method != http.MethodGet || got.status != http.StatusTeapot {
		t.Fatalf("unexpected observation: %+v", got)
	}
}

func TestMetricsMiddlewareUnmatchedRoute(t *testing.T) {
	recorder := &fakeHTTPRecorder{}

	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	if len(recorder.seen) != 1 || recorder.seen[0].path != "unmatched" || recorder.seen[0].status != http.StatusNotFound {
		t.Fatalf("unexpected observations: %+v", recorder.seen)
	}
}

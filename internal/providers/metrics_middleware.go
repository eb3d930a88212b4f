package providers

import (
	"net/http"
	"time"
)

// statusRecorder captures the status a handler writes. Handlers that only
// call Write keep the implicit 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware instruments a single control API route. The endpoint
// label is the registered route path rather than the request URL, so label
// cardinality stays bounded by the route table.
func MetricsMiddleware(metrics MetricsProviderInterface, endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.IncRequestsTotal(endpoint, rec.status)
		metrics.ObserveRequestDuration(endpoint, time.Since(start))
	})
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/wardrobe/pkg/metrics"
)

// MetricsMiddleware records request count, latency and failures for endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status,
			float64(time.Since(start).Microseconds())/1000)

		if kind := failureKind(rec.status); kind != "" {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, kind)
			metrics.RecordErrorByComponent("http", kind)
		}
	}
}

// failureKind labels a status with the error code the handlers write, or
// "" for success.
func failureKind(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return ""
	case status == http.StatusTooManyRequests:
		return "backpressure"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusServiceUnavailable:
		return "unavailable"
	case status >= http.StatusInternalServerError:
		return "internal_error"
	default:
		return "bad_request"
	}
}

// statusRecorder remembers the first status written.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.status = code
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

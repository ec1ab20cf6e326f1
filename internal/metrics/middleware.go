package metrics

import (
	"net/http"
	"regexp"
	"time"
)

// Record IDs, not values: UUID and numeric path segments collapse to
// :id so label cardinality stays bounded.
var idSegment = regexp.MustCompile(`/([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}|\d+)`)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	return r.ResponseWriter.Write(b)
}

// Middleware records request count and latency for every request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		status := http.StatusText(recorder.statusCode)
		if status == "" {
			status = "UNKNOWN"
		}
		RecordRequest(r.Method, path, status)
		RecordRequestDuration(r.Method, path, status, duration)
	})
}

func normalizePath(path string) string {
	return idSegment.ReplaceAllString(path, "/:id")
}

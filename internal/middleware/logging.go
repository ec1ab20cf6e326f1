package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ltgt/portal-gateway/internal/logging"
)

// HTTPLogging logs full requests and responses with credentials
// masked. It only pays the capture cost when the logger is running at
// debug level.
func HTTPLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}

			logRequest(logger, r)

			rec := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           new(bytes.Buffer),
			}
			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Debug("http response",
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"url", r.URL.Path,
				"status_code", rec.statusCode,
				"body", string(logging.MaskJSONBody(rec.body.Bytes())),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

func logRequest(logger *slog.Logger, r *http.Request) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			logger.Error("failed to read request body", "error", err)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[name] = logging.MaskHeader(name, values[0])
		}
	}

	logger.Debug("http request",
		"request_id", GetRequestID(r.Context()),
		"method", r.Method,
		"url", r.URL.Path,
		"query_params", r.URL.RawQuery,
		"headers", headers,
		"body", string(logging.MaskJSONBody(body)),
	)
}

// responseRecorder captures the status and body for debug logging.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

func (r *responseRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

package server

import (
	"net/http"
	"time"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
)

// statusRecorder captures the status code written by the wrapped handler.
// Flush is forwarded so event streams keep working.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		r.wroteHeader = true
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LogRequests logs one line per request once the handler returns.
func LogRequests(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			attrs := []any{
				logging.Method(r.Method),
				logging.Path(r.URL.Path),
				logging.Status(rec.status),
				logging.Duration(time.Since(start)),
			}
			if id := r.Header.Get(SessionHeader); id != "" {
				attrs = append(attrs, logging.SessionID(id))
			}

			log := logger.WithContext(r.Context())
			switch {
			case rec.status >= 500:
				log.Error("http request", attrs...)
			case r.URL.Path == "/healthz" || r.URL.Path == "/metrics":
				log.Debug("http request", attrs...)
			default:
				log.Info("http request", attrs...)
			}
		})
	}
}

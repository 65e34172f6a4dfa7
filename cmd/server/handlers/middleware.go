package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/udayip/portfolio/logger"
)

// RequestIDHeader carries the request ID in and out.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an ID and writes an access log line.
type RequestLogger struct {
	logger logger.Logger
}

// NewRequestLogger creates the request ID and access log middleware.
func NewRequestLogger(log logger.Logger) *RequestLogger {
	return &RequestLogger{logger: log}
}

// Handler wraps next with request ID propagation, panic recovery and access logging.
func (m *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := logger.WithRequestID(r.Context(), id)
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				m.logger.Error(ctx, "panic while handling request", map[string]interface{}{
					"panic":  p,
					"method": r.Method,
					"path":   r.URL.Path,
				})
				if !rec.wroteHeader {
					respondError(rec, http.StatusInternalServerError, "Internal server error")
				}
			}

			m.logger.Info(ctx, "request handled", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		}()

		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}

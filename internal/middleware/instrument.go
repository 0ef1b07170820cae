package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/angeloszaimis/dockerlabs/internal/metrics"
)

const HeaderRequestID = "X-Request-ID"

// Emitter accepts metric events without blocking.
type Emitter interface {
	Emit(event metrics.MetricEvent) bool
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.statusCode = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Instrument returns middleware that tags each request with an id, logs it
// once it completes and reports it to events. A nil events disables metrics.
func Instrument(logger *slog.Logger, events Emitter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = ksuid.New().String()
			}
			w.Header().Set(HeaderRequestID, requestID)

			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start)

			level := slog.LevelInfo
			if wrapped.statusCode >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			logger.LogAttrs(r.Context(), level, "Request served",
				slog.String("request_id", requestID),
				slog.String("from", extractClientIP(r)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", duration),
				slog.String("user_agent", r.UserAgent()))

			if events == nil {
				return
			}

			if !events.Emit(metrics.MetricEvent{
				Type:       metrics.EventRequestServed,
				Timestamp:  start,
				Route:      metrics.RouteLabel(r.URL.Path),
				Duration:   duration,
				StatusCode: wrapped.statusCode,
			}) {
				logger.Debug("Metrics buffer full, dropping event",
					slog.String("request_id", requestID))
			}
		})
	}
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(ip)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

package middleware

import (
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/face-attendance/internal/logger"
)

// RequestLogger logs one line per request through the application logger,
// tagged with the chi request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		fields := logger.Fields{
			logger.RequestIDKey: chiMiddleware.GetReqID(r.Context()),
			"method":            r.Method,
			"path":              r.URL.Path,
			"status":            ww.Status(),
			"bytes":             ww.BytesWritten(),
			"duration":          time.Since(start).String(),
			"remote":            r.RemoteAddr,
		}
		switch {
		case ww.Status() >= http.StatusInternalServerError:
			logger.Error(fields, "request")
		case r.URL.Path == "/api/v1/frame":
			// The preview polls several times a second.
			logger.Debug(fields, "request")
		default:
			logger.Info(fields, "request")
		}
	})
}

package middleware

import (
	"net/http"
	"time"

	"fortunasbet-api/pkg/auth"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// userCapture lets the logger see the caller that the auth middleware resolves further down the chain
type userCapture struct {
	userID string
}

// Logger creates a logging middleware
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			capture := &userCapture{}
			next.ServeHTTP(ww, r.WithContext(withUserCapture(r.Context(), capture)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.String("remoteAddr", r.RemoteAddr),
				zap.String("userAgent", r.UserAgent()),
			}
			if capture.userID != "" {
				fields = append(fields, zap.String("userID", capture.userID))
			}

			if status >= http.StatusInternalServerError {
				logger.Error("HTTP Request", fields...)
				return
			}
			logger.Info("HTTP Request", fields...)
		})
	}
}

// CaptureUser records the authenticated caller for the request log line.
// It must run after Authenticate.
func CaptureUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture := userCaptureFrom(r.Context()); capture != nil {
			if user, err := auth.GetUserFromContext(r.Context()); err == nil {
				capture.userID = user.UserID
			}
		}
		next.ServeHTTP(w, r)
	})
}

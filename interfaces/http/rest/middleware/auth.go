package middleware

import (
	"errors"
	"net/http"
	"strings"

	"fortunasbet-api/pkg/auth"
	pkgerrors "fortunasbet-api/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate validates the bearer token and stores the caller on the request context.
// Callers over their rate limit get 429.
func Authenticate(
	validator auth.TokenValidator,
	limiter auth.RateLimiter,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError("Missing or malformed authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.Debug("Token rejected", zap.Error(err), zap.String("path", r.URL.Path))
				errorHandler.Handle(w, r, pkgerrors.NewUnauthorizedError(unauthorizedMessage(err)))
				return
			}

			user := auth.NewUserContext(claims)

			if limiter != nil {
				allowed, err := limiter.Allow(r.Context(), user.UserID)
				if err != nil {
					logger.Warn("Rate limiter failed", zap.Error(err))
				}
				if !allowed {
					errorHandler.HandleStatus(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
					return
				}
			}

			ctx := auth.SetUserInContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return "Invalid token signature"
	case errors.Is(err, auth.ErrMissingToken):
		return "Missing authentication token"
	default:
		return "Invalid token"
	}
}

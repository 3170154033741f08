package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "user"

// ErrNoUserInContext is returned when a handler runs without the auth middleware
var ErrNoUserInContext = errors.New("no authenticated user in context")

// UserContext holds the authenticated caller
type UserContext struct {
	UserID   string
	Username string
	Email    string
	Name     string
	Groups   []string
}

// NewUserContext builds the request identity from validated claims
func NewUserContext(claims *Claims) *UserContext {
	return &UserContext{
		UserID:   claims.UserID(),
		Username: claims.LoginName(),
		Email:    claims.Email,
		Name:     claims.Name,
		Groups:   claims.Groups,
	}
}

// InGroup reports whether the caller belongs to a Cognito group
func (u *UserContext) InGroup(group string) bool {
	for _, g := range u.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// SetUserInContext stores the caller on the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext returns the caller stored by the auth middleware
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil || user.UserID == "" {
		return nil, ErrNoUserInContext
	}
	return user, nil
}

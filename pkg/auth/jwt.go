package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingToken     = errors.New("missing authentication token")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Cognito token_use values
const (
	TokenUseID     = "id"
	TokenUseAccess = "access"
)

// Claims represents the claims carried by a Cognito ID or access token
type Claims struct {
	Email           string   `json:"email,omitempty"`
	Name            string   `json:"name,omitempty"`
	Username        string   `json:"username,omitempty"`
	CognitoUsername string   `json:"cognito:username,omitempty"`
	UserIDClaim     string   `json:"user_id,omitempty"`
	Groups          []string `json:"cognito:groups,omitempty"`
	TokenUse        string   `json:"token_use,omitempty"`
	ClientID        string   `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// UserID resolves the caller's identifier, preferring the subject
func (c *Claims) UserID() string {
	for _, candidate := range []string{c.Subject, c.UserIDClaim, c.Username, c.CognitoUsername} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// LoginName is the identity provider's username for the caller
func (c *Claims) LoginName() string {
	if c.CognitoUsername != "" {
		return c.CognitoUsername
	}
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Issuer       string   // Expected iss, empty to skip
	ClientID     string   // Expected aud (id tokens) or client_id (access tokens), empty to skip
	ValidMethods []string // Accepted alg values
}

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// JWTValidator handles JWT validation against a key source
type JWTValidator struct {
	keyFunc jwt.Keyfunc
	config  JWTConfig
}

// NewJWTValidator creates a validator over an arbitrary key source
func NewJWTValidator(keyFunc jwt.Keyfunc, config JWTConfig) (*JWTValidator, error) {
	if keyFunc == nil {
		return nil, errors.New("key function is required")
	}
	if len(config.ValidMethods) == 0 {
		config.ValidMethods = []string{jwt.SigningMethodRS256.Alg()}
	}
	return &JWTValidator{keyFunc: keyFunc, config: config}, nil
}

// CognitoIssuer returns the issuer URL for a user pool
func CognitoIssuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

// CognitoJWKSURL returns the JWKS endpoint for a user pool
func CognitoJWKSURL(region, userPoolID string) string {
	return CognitoIssuer(region, userPoolID) + "/.well-known/jwks.json"
}

// NewCognitoValidator creates a validator backed by the user pool's published keys.
// Keys are fetched up front and refreshed in the background while ctx is alive.
func NewCognitoValidator(ctx context.Context, region, userPoolID, clientID string) (*JWTValidator, error) {
	if region == "" || userPoolID == "" {
		return nil, errors.New("cognito region and user pool id are required")
	}

	k, err := keyfunc.NewDefaultCtx(ctx, []string{CognitoJWKSURL(region, userPoolID)})
	if err != nil {
		return nil, fmt.Errorf("failed to load cognito JWKS: %w", err)
	}

	return NewJWTValidator(k.Keyfunc, JWTConfig{
		Issuer:       CognitoIssuer(region, userPoolID),
		ClientID:     clientID,
		ValidMethods: []string{jwt.SigningMethodRS256.Alg()},
	})
}

// ValidateToken validates a JWT token and returns the claims
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.config.ValidMethods),
		jwt.WithExpirationRequired(),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if err := v.validateClient(claims); err != nil {
		return nil, err
	}

	if claims.UserID() == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrInvalidClaims)
	}

	return claims, nil
}

// validateClient checks the app client the token was issued to.
// ID tokens carry it in aud, access tokens in client_id.
func (v *JWTValidator) validateClient(claims *Claims) error {
	if v.config.ClientID == "" {
		return nil
	}

	switch claims.TokenUse {
	case TokenUseID:
		if !slices.Contains(claims.Audience, v.config.ClientID) {
			return fmt.Errorf("%w: invalid audience", ErrInvalidClaims)
		}
	case TokenUseAccess:
		if claims.ClientID != v.config.ClientID {
			return fmt.Errorf("%w: invalid client_id", ErrInvalidClaims)
		}
	default:
		if claims.ClientID != v.config.ClientID && !slices.Contains(claims.Audience, v.config.ClientID) {
			return fmt.Errorf("%w: token not issued to this client", ErrInvalidClaims)
		}
	}
	return nil
}

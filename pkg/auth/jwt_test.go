package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-signing-secret"
	testIssuer   = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_pool"
	testClientID = "client-123"
)

func newTestValidator(t *testing.T) *JWTValidator {
	t.Helper()
	v, err := NewJWTValidator(
		func(token *jwt.Token) (interface{}, error) { return []byte(testSecret), nil },
		JWTConfig{
			Issuer:       testIssuer,
			ClientID:     testClientID,
			ValidMethods: []string{jwt.SigningMethodHS256.Alg()},
		},
	)
	require.NoError(t, err)
	return v
}

func signClaims(t *testing.T, claims *Claims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validIDClaims() *Claims {
	now := time.Now()
	return &Claims{
		Email:           "alice@example.com",
		Name:            "Alice",
		CognitoUsername: "alice",
		TokenUse:        TokenUseID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-abc",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestJWTValidator_ValidateToken_IDToken(t *testing.T) {
	v := newTestValidator(t)
	token := signClaims(t, validIDClaims(), testSecret)

	claims, err := v.ValidateToken("Bearer " + token)

	require.NoError(t, err)
	assert.Equal(t, "user-abc", claims.UserID())
	assert.Equal(t, "alice", claims.LoginName())
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestJWTValidator_ValidateToken_AccessToken(t *testing.T) {
	v := newTestValidator(t)
	claims := validIDClaims()
	claims.TokenUse = TokenUseAccess
	claims.Audience = nil
	claims.ClientID = testClientID

	_, err := v.ValidateToken(signClaims(t, claims, testSecret))

	assert.NoError(t, err)
}

func TestJWTValidator_ValidateToken_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Claims)
		secret  string
		wantErr error
	}{
		{
			name:    "expired",
			mutate:  func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute)) },
			wantErr: ErrExpiredToken,
		},
		{
			name:    "wrong signature",
			secret:  "some-other-secret",
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "wrong issuer",
			mutate:  func(c *Claims) { c.Issuer = "https://evil.example.com" },
			wantErr: ErrInvalidClaims,
		},
		{
			name:    "wrong audience",
			mutate:  func(c *Claims) { c.Audience = jwt.ClaimStrings{"another-client"} },
			wantErr: ErrInvalidClaims,
		},
		{
			name:    "access token for another client",
			mutate:  func(c *Claims) { c.TokenUse = TokenUseAccess; c.ClientID = "another-client" },
			wantErr: ErrInvalidClaims,
		},
		{
			name:    "missing expiry",
			mutate:  func(c *Claims) { c.ExpiresAt = nil },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(t)
			claims := validIDClaims()
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			secret := testSecret
			if tt.secret != "" {
				secret = tt.secret
			}

			_, err := v.ValidateToken(signClaims(t, claims, secret))

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestJWTValidator_ValidateToken_MissingAndGarbage(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.ValidateToken("Bearer ")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = v.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTValidator_RejectsUnexpectedAlgorithm(t *testing.T) {
	v, err := NewJWTValidator(
		func(token *jwt.Token) (interface{}, error) { return []byte(testSecret), nil },
		JWTConfig{},
	)
	require.NoError(t, err)

	// Defaults to RS256 only, so an HMAC token must be refused.
	_, err = v.ValidateToken(signClaims(t, validIDClaims(), testSecret))

	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestClaims_UserIDFallbacks(t *testing.T) {
	assert.Equal(t, "u1", (&Claims{UserIDClaim: "u1"}).UserID())
	assert.Equal(t, "name", (&Claims{Username: "name"}).UserID())
	assert.Equal(t, "cog", (&Claims{CognitoUsername: "cog"}).UserID())
	assert.Equal(t, "", (&Claims{}).UserID())
}

func TestCognitoURLs(t *testing.T) {
	assert.Equal(t, testIssuer, CognitoIssuer("us-east-1", "us-east-1_pool"))
	assert.Equal(t, testIssuer+"/.well-known/jwks.json", CognitoJWKSURL("us-east-1", "us-east-1_pool"))

	_, err := NewCognitoValidator(context.Background(), "", "", "")
	assert.Error(t, err)
}

func TestUserContext_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, err := GetUserFromContext(ctx)
	assert.ErrorIs(t, err, ErrNoUserInContext)

	user := NewUserContext(validIDClaims())
	ctx = SetUserInContext(ctx, user)

	got, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.False(t, got.InGroup("admins"))
}

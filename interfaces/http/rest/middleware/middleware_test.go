package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fortunasbet-api/pkg/auth"
	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	requests []recordedRequest
}

func (f *fakeRecorder) RecordRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{method: method, route: route, status: status})
}

type fakeValidator struct{}

func (fakeValidator) ValidateToken(token string) (*auth.Claims, error) {
	switch token {
	case "good":
		return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}}, nil
	case "expired":
		return nil, auth.ErrExpiredToken
	}
	return nil, auth.ErrInvalidToken
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	recorder := &fakeRecorder{}
	router := chi.NewRouter()
	router.Use(Metrics(recorder))
	router.Get("/room/get_room/{room_id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/room/get_room/"+id, nil))
	}

	require.Len(t, recorder.requests, 2)
	for _, req := range recorder.requests {
		assert.Equal(t, "/room/get_room/{room_id}", req.route)
		assert.Equal(t, http.StatusNotFound, req.status)
	}
}

func TestAuthenticate(t *testing.T) {
	errorHandler := pkgerrors.NewErrorHandler(zap.NewNop(), false)
	var seen string
	handler := Authenticate(fakeValidator{}, nil, errorHandler, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.GetUserFromContext(r.Context())
			require.NoError(t, err)
			seen = user.UserID
		}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer good", want: http.StatusOK},
		{name: "lowercase scheme", header: "bearer good", want: http.StatusOK},
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "no token", header: "Bearer ", want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer expired", want: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer junk", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user-1", seen)
			} else {
				assert.Empty(t, seen)
			}
		})
	}
}

func TestLogger_IncludesUserID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	errorHandler := pkgerrors.NewErrorHandler(zap.NewNop(), false)

	handler := Logger(zap.New(core))(
		Authenticate(fakeValidator{}, nil, errorHandler, zap.NewNop())(
			CaptureUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))))

	req := httptest.NewRequest(http.MethodGet, "/user/get_requestors_profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "user-1", fields["userID"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
}

package resilience

import (
	"context"
	"errors"
	"testing"

	pkgerrors "fortunasbet-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestBreaker_TripsAfterFailures(t *testing.T) {
	b := NewBreaker(DefaultBreakerConfig("test"), zap.NewNop())
	boom := errors.New("boom")

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, b.Execute(func() error { return boom }), boom)
	}

	calls := 0
	err := b.Execute(func() error { calls++; return nil })

	assert.Equal(t, 0, calls)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	assert.Equal(t, "open", b.State())
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	b := NewBreaker(DefaultBreakerConfig("test"), zap.NewNop())

	for i := 0; i < 10; i++ {
		_ = b.Execute(func() error { return context.Canceled })
	}

	assert.Equal(t, "closed", b.State())
}

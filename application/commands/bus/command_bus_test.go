package bus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingCommand struct {
	Target string
}

func (c pingCommand) Validate() error {
	if c.Target == "" {
		return errors.New("target is required")
	}
	return nil
}

type recordingObserver struct {
	names []string
	errs  []error
}

func (o *recordingObserver) ObserveDispatch(kind, name string, _ time.Duration, err error) {
	o.names = append(o.names, kind+":"+name)
	o.errs = append(o.errs, err)
}

func TestCommandBus_SendDispatchesToHandler(t *testing.T) {
	// Arrange
	b := NewCommandBus()
	var got string
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		got = cmd.(pingCommand).Target
		return nil
	})))

	// Act
	err := b.Send(context.Background(), pingCommand{Target: "room-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "room-1", got)
}

func TestCommandBus_ValidationRunsBeforeHandler(t *testing.T) {
	b := NewCommandBus()
	called := false
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		called = true
		return nil
	})))

	err := b.Send(context.Background(), pingCommand{})

	assert.EqualError(t, err, "target is required")
	assert.False(t, called)
}

func TestCommandBus_UnknownAndDuplicateHandlers(t *testing.T) {
	b := NewCommandBus()

	err := b.Send(context.Background(), pingCommand{Target: "x"})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	noop := CommandHandlerFunc(func(ctx context.Context, cmd Command) error { return nil })
	require.NoError(t, b.Register(pingCommand{}, noop))
	assert.ErrorIs(t, b.Register(pingCommand{}, noop), ErrAlreadyRegistered)
}

func TestCommandBus_MiddlewareWrapsHandlers(t *testing.T) {
	// Arrange
	observer := &recordingObserver{}
	handlerErr := errors.New("conflict")
	b := NewCommandBus(LoggingMiddleware(zap.NewNop()), MetricsMiddleware(observer))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		return handlerErr
	})))

	// Act
	err := b.Send(context.Background(), pingCommand{Target: "x"})

	// Assert
	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, []string{"command:pingCommand"}, observer.names)
	assert.Equal(t, []error{handlerErr}, observer.errs)
}

func TestPipeline_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	h := NewPipeline(mark("outer"), mark("inner")).Execute(CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
		order = append(order, "handler")
		return nil
	}))
	require.NoError(t, h.Handle(context.Background(), pingCommand{Target: "x"}))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

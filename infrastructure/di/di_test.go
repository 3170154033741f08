package di

import (
	"context"
	"testing"
	"time"

	"fortunasbet-api/application/commands"
	"fortunasbet-api/application/commands/bus"
	"fortunasbet-api/application/ports/mocks"
	"fortunasbet-api/application/queries"
	"fortunasbet-api/application/services"
	"fortunasbet-api/domain/core/entities"
	"fortunasbet-api/infrastructure/config"
	"fortunasbet-api/infrastructure/identity/cognito"
	"fortunasbet-api/infrastructure/messaging/eventbridge"
	"fortunasbet-api/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testBusDeps struct {
	rooms         *mocks.MockRoomRepository
	memberships   *mocks.MockMembershipRepository
	profiles      *mocks.MockUserProfileRepository
	notifications *mocks.MockNotificationRepository
	audits        *mocks.MockAuditRepository
	collector     *observability.Collector
}

func newTestBusDeps() testBusDeps {
	return testBusDeps{
		rooms:         new(mocks.MockRoomRepository),
		memberships:   new(mocks.MockMembershipRepository),
		profiles:      new(mocks.MockUserProfileRepository),
		notifications: new(mocks.MockNotificationRepository),
		audits:        new(mocks.MockAuditRepository),
		collector:     observability.NewCollector("test"),
	}
}

func TestProvideCommandBus_RegistersHandlers(t *testing.T) {
	// Arrange
	d := newTestBusDeps()
	logger := zap.NewNop()
	audit := services.NewAuditService(d.audits, logger)
	notifier := services.NewNotificationService(d.notifications, eventbridge.NoopPublisher{}, logger)

	commandBus, err := ProvideCommandBus(d.rooms, d.memberships, d.profiles, d.notifications,
		cognito.NoopProvider{}, audit, notifier, d.collector, observability.NewTracer("test", false), logger)
	require.NoError(t, err)

	ctx := context.Background()
	d.notifications.On("Acknowledge", mock.Anything, "user-1", "n-1").Return(nil)

	// Act
	err = commandBus.Send(ctx, commands.AcknowledgeNotificationCommand{UserID: "user-1", NotificationID: "n-1"})

	// Assert
	require.NoError(t, err)
	d.notifications.AssertExpectations(t)
}

type unknownCommand struct{}

func (unknownCommand) Validate() error { return nil }

func TestProvideCommandBus_UnknownCommand(t *testing.T) {
	d := newTestBusDeps()
	logger := zap.NewNop()
	commandBus, err := ProvideCommandBus(d.rooms, d.memberships, d.profiles, d.notifications,
		cognito.NoopProvider{}, services.NewAuditService(d.audits, logger),
		services.NewNotificationService(d.notifications, eventbridge.NoopPublisher{}, logger),
		d.collector, observability.NewTracer("test", false), logger)
	require.NoError(t, err)

	err = commandBus.Send(context.Background(), unknownCommand{})
	assert.ErrorIs(t, err, bus.ErrHandlerNotFound)
}

func TestProvideQueryBus_CachesLeaguesOnly(t *testing.T) {
	d := newTestBusDeps()
	cache := NewInMemoryCache(0)
	defer cache.Close()

	queryBus, err := ProvideQueryBus(d.rooms, d.memberships, d.profiles, d.notifications, d.audits,
		cache, d.collector, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	result, err := queryBus.Ask(ctx, queries.ListValidLeaguesQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"NFL", "NBA"}, result)

	cached, found := cache.Get(ctx, "queries.ListValidLeaguesQuery:{}")
	assert.True(t, found)
	assert.Equal(t, result, cached)

	d.rooms.On("GetByID", mock.Anything, "room-1").Return(&entities.Room{ID: "room-1"}, nil).Twice()
	for i := 0; i < 2; i++ {
		_, err = queryBus.Ask(ctx, queries.GetRoomQuery{RoomID: "room-1"})
		require.NoError(t, err)
	}
	d.rooms.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	cache := NewInMemoryCache(0)
	now := time.Unix(1000, 0)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	cache.Set(ctx, "k", "v", time.Minute)
	v, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)

	cache.Close()
	cache.Close()
}

func TestProvideMetrics_DisabledWithoutFlag(t *testing.T) {
	cfg := &config.Config{Stage: "dev"}
	metrics := ProvideMetrics(nil, cfg, zap.NewNop())

	assert.Equal(t, "FortunasBet-DEV", metrics.Namespace())
	// Without a client RecordRequest is a no-op
	metrics.RecordRequest(context.Background(), "GET", "/room/get_all_rooms", 200, time.Millisecond)
}

func TestProvideEventBus_NoopWhenDisabled(t *testing.T) {
	bus := ProvideEventBus(nil, &config.Config{}, zap.NewNop())
	_, ok := bus.(eventbridge.NoopPublisher)
	assert.True(t, ok)
}

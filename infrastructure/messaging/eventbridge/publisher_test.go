package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fortunasbet-api/domain/events"
	pkgerrors "fortunasbet-api/pkg/errors"
	"fortunasbet-api/pkg/resilience"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockEventBridge struct {
	mock.Mock
}

func (m *mockEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*eventbridge.PutEventsOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestPublisher(client EventBridgeAPI) *Publisher {
	logger := zap.NewNop()
	return NewPublisher(client, "fortunasbet-bus", resilience.NewBreaker(resilience.DefaultBreakerConfig("eventbridge"), logger), logger)
}

func roomEvents(n int) []events.DomainEvent {
	evts := make([]events.DomainEvent, n)
	for i := range evts {
		evts[i] = events.NewRoomDeleted("room-1", "owner-1", time.Now())
	}
	return evts
}

func TestPublisher_PublishBatchChunksByTen(t *testing.T) {
	// Arrange
	ctx := context.Background()
	client := new(mockEventBridge)
	var sizes []int
	client.On("PutEvents", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			sizes = append(sizes, len(args.Get(1).(*eventbridge.PutEventsInput).Entries))
		}).
		Return(&eventbridge.PutEventsOutput{}, nil)

	// Act
	err := newTestPublisher(client).PublishBatch(ctx, roomEvents(23))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []int{10, 10, 3}, sizes)
}

func TestPublisher_EntryShape(t *testing.T) {
	ctx := context.Background()
	client := new(mockEventBridge)
	var entry types.PutEventsRequestEntry
	client.On("PutEvents", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*eventbridge.PutEventsInput).Entries[0]
		}).
		Return(&eventbridge.PutEventsOutput{}, nil)

	event := events.NewRoomCreated("room-1", "owner-1", "Picks", []string{"NFL"}, true, time.Now())
	require.NoError(t, newTestPublisher(client).Publish(ctx, event))

	assert.Equal(t, "fortunasbet.api", aws.ToString(entry.Source))
	assert.Equal(t, events.TypeRoomCreated, aws.ToString(entry.DetailType))
	assert.Equal(t, "fortunasbet-bus", aws.ToString(entry.EventBusName))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "room-1", detail["room_id"])
}

func TestPublisher_FailedEntries(t *testing.T) {
	ctx := context.Background()
	client := new(mockEventBridge)
	client.On("PutEvents", ctx, mock.Anything).Return(&eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
	}, nil)

	err := newTestPublisher(client).PublishBatch(ctx, roomEvents(1))

	assert.EqualError(t, err, "1 events failed to publish")
}

func TestPublisher_EmptyBatch(t *testing.T) {
	client := new(mockEventBridge)
	require.NoError(t, newTestPublisher(client).PublishBatch(context.Background(), nil))
	client.AssertNotCalled(t, "PutEvents", mock.Anything, mock.Anything)
}

func TestPublisher_OpenBreakerStopsCalls(t *testing.T) {
	ctx := context.Background()
	client := new(mockEventBridge)
	client.On("PutEvents", ctx, mock.Anything).Return(nil, errors.New("service unavailable"))

	p := newTestPublisher(client)
	for i := 0; i < 5; i++ {
		_ = p.Publish(ctx, roomEvents(1)[0])
	}

	err := p.Publish(ctx, roomEvents(1)[0])

	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable))
	client.AssertNumberOfCalls(t, "PutEvents", 5)
}

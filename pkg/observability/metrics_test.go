package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCloudWatch struct {
	mock.Mock
}

func (m *mockCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	args := m.Called(ctx, params)
	return &cloudwatch.PutMetricDataOutput{}, args.Error(0)
}

func TestMetrics_RecordRequest_Success(t *testing.T) {
	// Arrange
	client := new(mockCloudWatch)
	metrics := NewMetrics("FortunasBet-DEV", client, zap.NewNop())

	var captured *cloudwatch.PutMetricDataInput
	client.On("PutMetricData", mock.Anything, mock.AnythingOfType("*cloudwatch.PutMetricDataInput")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*cloudwatch.PutMetricDataInput) }).
		Return(nil)

	// Act
	metrics.RecordRequest(context.Background(), http.MethodGet, "/room/get_room/{room_id}", http.StatusOK, 42*time.Millisecond)

	// Assert
	require.NotNil(t, captured)
	assert.Equal(t, "FortunasBet-DEV", aws.ToString(captured.Namespace))
	require.Len(t, captured.MetricData, 2)
	assert.Equal(t, MetricRequestCount, aws.ToString(captured.MetricData[0].MetricName))
	assert.Equal(t, "GET /room/get_room/{room_id}", aws.ToString(captured.MetricData[0].Dimensions[0].Value))
	assert.Equal(t, float64(42), aws.ToFloat64(captured.MetricData[1].Value))
	client.AssertExpectations(t)
}

func TestMetrics_RecordRequest_ErrorStatusAddsErrorMetric(t *testing.T) {
	client := new(mockCloudWatch)
	metrics := NewMetrics("ns", client, zap.NewNop())

	client.On("PutMetricData", mock.Anything, mock.MatchedBy(func(in *cloudwatch.PutMetricDataInput) bool {
		return len(in.MetricData) == 3 && aws.ToString(in.MetricData[2].MetricName) == MetricRequestErrors
	})).Return(errors.New("throttled"))

	// A publish failure is swallowed
	metrics.RecordRequest(context.Background(), http.MethodPost, "/room/create_room", http.StatusBadRequest, time.Millisecond)

	client.AssertExpectations(t)
}

func TestMetrics_NilClientIsNoop(t *testing.T) {
	metrics := NewMetrics("ns", nil, zap.NewNop())
	assert.NotPanics(t, func() {
		metrics.RecordRequest(context.Background(), http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
}

func TestCollector_RecordsAndServes(t *testing.T) {
	c := NewCollector("fortunasbet")

	c.RecordRequest(context.Background(), http.MethodGet, "/room/get_all_rooms", http.StatusOK, 10*time.Millisecond)
	c.RecordRequest(context.Background(), http.MethodGet, "/room/get_all_rooms", http.StatusOK, 10*time.Millisecond)
	c.ObserveDispatch("command", "CreateRoomCommand", time.Millisecond, nil)
	c.ObserveDispatch("command", "CreateRoomCommand", time.Millisecond, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(c.HTTPRequests.WithLabelValues(http.MethodGet, "/room/get_all_rooms", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.BusDispatches.WithLabelValues("command", "CreateRoomCommand", "failure")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fortunasbet_http_requests_total")
}

func TestRecorders_FanOut(t *testing.T) {
	a := NewCollector("a")
	b := NewCollector("b")

	Recorders{a, b, nil}.RecordRequest(context.Background(), http.MethodGet, "/x", http.StatusOK, time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(a.HTTPRequests.WithLabelValues(http.MethodGet, "/x", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(b.HTTPRequests.WithLabelValues(http.MethodGet, "/x", "200")))
}

func TestTracer_DisabledRunsFunction(t *testing.T) {
	tracer := NewTracer("fortunasbet", false)
	called := false

	err := tracer.TraceFunction(context.Background(), "op", func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.False(t, tracer.Enabled())
}

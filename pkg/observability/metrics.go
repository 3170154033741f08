package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metric names published per endpoint
const (
	MetricRequestCount   = "RequestCount"
	MetricRequestLatency = "RequestLatency"
	MetricRequestErrors  = "RequestErrors"
	DimensionEndpoint    = "Endpoint"
)

// CloudWatchAPI is the subset of the CloudWatch client used for publishing
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes request metrics to CloudWatch
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
	now       func() time.Time
}

// NewMetrics creates a new metrics instance. A nil client disables publishing.
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		now:       time.Now,
	}
}

// Namespace returns the CloudWatch namespace metrics are published under
func (m *Metrics) Namespace() string {
	return m.namespace
}

// RecordRequest publishes count, latency and error metrics for one request
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil || m.client == nil {
		return
	}

	now := m.now()
	endpoint := []types.Dimension{
		{Name: aws.String(DimensionEndpoint), Value: aws.String(method + " " + route)},
	}

	data := []types.MetricDatum{
		{
			MetricName: aws.String(MetricRequestCount),
			Dimensions: endpoint,
			Value:      aws.Float64(1),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String(MetricRequestLatency),
			Dimensions: endpoint,
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
	}

	if status >= 400 {
		data = append(data, types.MetricDatum{
			MetricName: aws.String(MetricRequestErrors),
			Dimensions: append(endpoint, types.Dimension{
				Name:  aws.String("StatusCode"),
				Value: aws.String(strconv.Itoa(status)),
			}),
			Value:     aws.Float64(1),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(now),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		// Metrics never fail a request
		m.logger.Warn("Failed to publish metrics",
			zap.String("namespace", m.namespace),
			zap.String("route", route),
			zap.Error(err),
		)
	}
}

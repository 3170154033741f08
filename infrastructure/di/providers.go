package di

import (
	"context"
	"strings"
	"time"

	"fortunasbet-api/application/ports"
	"fortunasbet-api/application/services"
	"fortunasbet-api/infrastructure/config"
	"fortunasbet-api/infrastructure/identity/cognito"
	"fortunasbet-api/infrastructure/messaging/eventbridge"
	"fortunasbet-api/infrastructure/persistence/dynamodb"
	"fortunasbet-api/pkg/auth"
	"fortunasbet-api/pkg/errors"
	"fortunasbet-api/pkg/observability"
	"fortunasbet-api/pkg/resilience"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awscognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "fortunasbet-api"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("stage", cfg.Stage)), nil
}

// ProvideErrorHandler creates the HTTP error handler. Internal messages are
// only exposed outside production.
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, !cfg.IsProduction())
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}
	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, pointing at DynamoDB Local when configured
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCognitoClient creates a Cognito identity provider client in the pool's region
func ProvideCognitoClient(awsCfg aws.Config, cfg *config.Config) *awscognito.Client {
	return awscognito.NewFromConfig(awsCfg, func(o *awscognito.Options) {
		o.Region = cfg.CognitoRegion
	})
}

// ProvideRoomRepository creates a room repository
func ProvideRoomRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.RoomRepository {
	return dynamodb.NewRoomRepository(client, cfg.TableName, logger)
}

// ProvideMembershipRepository creates a membership repository
func ProvideMembershipRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MembershipRepository {
	return dynamodb.NewMembershipRepository(
		client,
		cfg.TableName,
		cfg.IndexName, // GSI1 for memberships by user
		logger,
	)
}

// ProvideUserProfileRepository creates a profile repository
func ProvideUserProfileRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserProfileRepository {
	return dynamodb.NewUserProfileRepository(client, cfg.TableName, logger)
}

// ProvideNotificationRepository creates a notification repository
func ProvideNotificationRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.NotificationRepository {
	return dynamodb.NewNotificationRepository(client, cfg.TableName, logger)
}

// ProvideAuditRepository creates an audit repository
func ProvideAuditRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AuditRepository {
	return dynamodb.NewAuditRepository(client, cfg.TableName, logger)
}

// ProvideEventBus creates an event bus. Events are dropped unless ENABLE_EVENTS is set.
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if !cfg.EnableEvents {
		logger.Info("Domain event publishing disabled")
		return eventbridge.NoopPublisher{}
	}
	breaker := resilience.NewBreaker(resilience.DefaultBreakerConfig("eventbridge"), logger)
	return eventbridge.NewPublisher(client, cfg.EventBusName, breaker, logger)
}

// ProvideIdentityProvider creates the Cognito attribute sync, or a no-op when disabled
func ProvideIdentityProvider(client *awscognito.Client, cfg *config.Config, logger *zap.Logger) ports.IdentityProvider {
	if !cfg.EnableCognitoSync {
		return cognito.NoopProvider{}
	}
	breaker := resilience.NewBreaker(resilience.DefaultBreakerConfig("cognito"), logger)
	return cognito.NewProvider(client, cfg.CognitoUserPoolID, breaker, logger)
}

// ProvideAuditService creates the audit service
func ProvideAuditService(repo ports.AuditRepository, logger *zap.Logger) *services.AuditService {
	return services.NewAuditService(repo, logger)
}

// ProvideNotificationService creates the notification service
func ProvideNotificationService(repo ports.NotificationRepository, eventBus ports.EventBus, logger *zap.Logger) *services.NotificationService {
	return services.NewNotificationService(repo, eventBus, logger)
}

// ProvideMetrics creates the CloudWatch metrics publisher. Without
// ENABLE_METRICS it records nothing.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	var api observability.CloudWatchAPI
	if cfg.EnableMetrics {
		api = client
	}
	return observability.NewMetrics(cfg.MetricsNamespace(), api, logger)
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(strings.ReplaceAll(serviceName, "-", "_"))
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideTokenValidator loads the user pool keys and builds the JWT validator
func ProvideTokenValidator(ctx context.Context, cfg *config.Config) (auth.TokenValidator, error) {
	return auth.NewCognitoValidator(ctx, cfg.CognitoRegion, cfg.CognitoUserPoolID, cfg.CognitoClientID)
}

// ProvideRateLimiter creates the per-user rate limiter
func ProvideRateLimiter(cfg *config.Config) auth.RateLimiter {
	return auth.NewUserRateLimiter(cfg.RateLimitPerMinute)
}

// ProvideInMemoryCache creates the query cache
func ProvideInMemoryCache() *InMemoryCache {
	return NewInMemoryCache(5 * time.Minute)
}

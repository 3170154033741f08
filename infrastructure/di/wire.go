//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"fortunasbet-api/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideErrorHandler,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideCognitoClient,
	ProvideRoomRepository,
	ProvideMembershipRepository,
	ProvideUserProfileRepository,
	ProvideNotificationRepository,
	ProvideAuditRepository,
	ProvideEventBus,
	ProvideIdentityProvider,
	ProvideAuditService,
	ProvideNotificationService,
	ProvideMetrics,
	ProvideCollector,
	ProvideTracer,
	ProvideTokenValidator,
	ProvideRateLimiter,
	ProvideInMemoryCache,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}

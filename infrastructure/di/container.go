package di

import (
	"fortunasbet-api/application/commands/bus"
	querybus "fortunasbet-api/application/queries/bus"
	"fortunasbet-api/infrastructure/config"
	"fortunasbet-api/pkg/auth"
	"fortunasbet-api/pkg/errors"
	"fortunasbet-api/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	ErrorHandler   *errors.ErrorHandler
	CommandBus     *bus.CommandBus
	QueryBus       *querybus.QueryBus
	Cache          *InMemoryCache
	Metrics        *observability.Metrics
	Collector      *observability.Collector
	Tracer         *observability.Tracer
	TokenValidator auth.TokenValidator
	RateLimiter    auth.RateLimiter
}

// Close releases background resources
func (c *Container) Close() {
	if c.Cache != nil {
		c.Cache.Close()
	}
	_ = c.Logger.Sync()
}

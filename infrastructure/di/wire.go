//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"universe-backend/infrastructure/config"
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideRepositories,
	ProvideAccountRepository,
	ProvideNodeRepository,
	ProvideLedgerRepository,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideCache,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideAuthenticator,
	wire.Struct(new(Container), "*"),
)

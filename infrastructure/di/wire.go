//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"snaptales/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideSupabaseClient,
	ProvideJWTValidator,
	ProvideErrorHandler,
	ProvideProfileRepository,
	ProvideCoupleRepository,
	ProvidePairingStore,
	ProvideMemoryRepository,
	ProvideAccountDirectory,
	ProvideBlobStore,
	ProvideProfileService,
	ProvidePairingService,
	ProvideMemoryService,
	ProvideAuthService,
	ProvideMediaService,
	ProvideAuthHandler,
	ProvideProfileHandler,
	ProvideCoupleHandler,
	ProvideMemoryHandler,
	ProvideMediaHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}

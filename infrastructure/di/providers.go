package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"snaptales/application/ports"
	"snaptales/application/services"
	"snaptales/infrastructure/acl"
	"snaptales/infrastructure/blob"
	"snaptales/infrastructure/config"
	"snaptales/infrastructure/persistence/dynamodb"
	"snaptales/interfaces/http/rest"
	"snaptales/interfaces/http/rest/handlers"
	"snaptales/pkg/auth"
	pkgerrors "snaptales/pkg/errors"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Environment == config.EnvProduction {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideSupabaseClient creates a Supabase client using the service key
func ProvideSupabaseClient(cfg config.Config) (*supabase.Client, error) {
	return supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
}

// ProvideJWTValidator creates the token validator for the auth middleware
func ProvideJWTValidator(cfg config.Config) (*auth.JWTValidator, error) {
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	})
}

// ProvideErrorHandler creates the HTTP error translator
func ProvideErrorHandler(cfg config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideProfileRepository creates the profile repository
func ProvideProfileRepository(client *awsdynamodb.Client, cfg config.Config, logger *zap.Logger) ports.ProfileRepository {
	return dynamodb.NewProfileRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideCoupleRepository creates the couple repository
func ProvideCoupleRepository(client *awsdynamodb.Client, cfg config.Config, logger *zap.Logger) ports.CoupleRepository {
	return dynamodb.NewCoupleRepository(client, cfg.DynamoDBTable, logger)
}

// ProvidePairingStore creates the transactional pairing store
func ProvidePairingStore(client *awsdynamodb.Client, cfg config.Config, logger *zap.Logger) ports.PairingStore {
	return dynamodb.NewPairingStore(client, cfg.DynamoDBTable, logger)
}

// ProvideMemoryRepository creates the memory repository
func ProvideMemoryRepository(client *awsdynamodb.Client, cfg config.Config, logger *zap.Logger) ports.MemoryRepository {
	return dynamodb.NewMemoryRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideAccountDirectory creates the external identity adapter
func ProvideAccountDirectory(client *supabase.Client, logger *zap.Logger) ports.AccountDirectory {
	return acl.NewSupabaseDirectory(client, logger)
}

// ProvideBlobStore creates the external blob storage adapter
func ProvideBlobStore(client *supabase.Client, cfg config.Config, logger *zap.Logger) ports.BlobStore {
	return blob.NewSupabaseStore(client, cfg.StorageBucket, logger)
}

// ProvideProfileService creates the profile service
func ProvideProfileService(profiles ports.ProfileRepository, logger *zap.Logger) *services.ProfileService {
	return services.NewProfileService(profiles, logger)
}

// ProvidePairingService creates the pairing service
func ProvidePairingService(
	profiles ports.ProfileRepository,
	couples ports.CoupleRepository,
	pairings ports.PairingStore,
	logger *zap.Logger,
) *services.PairingService {
	return services.NewPairingService(profiles, couples, pairings, logger)
}

// ProvideMemoryService creates the memory service
func ProvideMemoryService(
	profiles ports.ProfileRepository,
	couples ports.CoupleRepository,
	memories ports.MemoryRepository,
	logger *zap.Logger,
) *services.MemoryService {
	return services.NewMemoryService(profiles, couples, memories, logger)
}

// ProvideAuthService creates the auth service
func ProvideAuthService(directory ports.AccountDirectory, profiles *services.ProfileService, logger *zap.Logger) *services.AuthService {
	return services.NewAuthService(directory, profiles, logger)
}

// ProvideMediaService creates the media service
func ProvideMediaService(blobs ports.BlobStore, logger *zap.Logger) *services.MediaService {
	return services.NewMediaService(blobs, logger)
}

// ProvideAuthHandler creates the auth handler
func ProvideAuthHandler(authService *services.AuthService, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *handlers.AuthHandler {
	return handlers.NewAuthHandler(authService, errHandler, logger)
}

// ProvideProfileHandler creates the profile handler
func ProvideProfileHandler(
	profileService *services.ProfileService,
	directory ports.AccountDirectory,
	errHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *handlers.ProfileHandler {
	return handlers.NewProfileHandler(profileService, directory, errHandler, logger)
}

// ProvideCoupleHandler creates the couple handler
func ProvideCoupleHandler(pairingService *services.PairingService, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *handlers.CoupleHandler {
	return handlers.NewCoupleHandler(pairingService, errHandler, logger)
}

// ProvideMemoryHandler creates the memory handler
func ProvideMemoryHandler(memoryService *services.MemoryService, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *handlers.MemoryHandler {
	return handlers.NewMemoryHandler(memoryService, errHandler, logger)
}

// ProvideMediaHandler creates the media handler
func ProvideMediaHandler(mediaService *services.MediaService, errHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *handlers.MediaHandler {
	return handlers.NewMediaHandler(mediaService, errHandler, logger)
}

// ProvideRouter creates the configured HTTP router
func ProvideRouter(
	cfg config.Config,
	validator *auth.JWTValidator,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	coupleHandler *handlers.CoupleHandler,
	memoryHandler *handlers.MemoryHandler,
	mediaHandler *handlers.MediaHandler,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, validator, authHandler, profileHandler, coupleHandler, memoryHandler, mediaHandler, logger)
}

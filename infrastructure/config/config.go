// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment identifies the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds all service configuration
type Config struct {
	// Server
	ServerAddress   string
	Environment     Environment
	ShutdownTimeout time.Duration
	EnableCORS      bool
	AllowedOrigins  []string
	IsLambda        bool

	// Persistence
	AWSRegion     string
	DynamoDBTable string

	// Auth
	JWTSecret string
	JWTIssuer string

	// Account directory and blob storage
	SupabaseURL        string
	SupabaseServiceKey string
	StorageBucket      string

	// Observability
	LogLevel string
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development
func Load() Config {
	return Config{
		ServerAddress:   getEnv("SERVER_ADDRESS", ":8080"),
		Environment:     Environment(getEnv("ENVIRONMENT", string(EnvDevelopment))),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		EnableCORS:      getEnvBool("ENABLE_CORS", true),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		IsLambda:        os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable: getEnv("DYNAMODB_TABLE", "snaptales"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", ""),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", "memories"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks that production deployments carry the secrets and
// endpoints they cannot run without
func (c Config) Validate() error {
	if c.Environment != EnvProduction {
		return nil
	}

	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.SupabaseURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.SupabaseServiceKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if c.DynamoDBTable == "" {
		missing = append(missing, "DYNAMODB_TABLE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard ALLOWED_ORIGINS is not permitted in production")
		}
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode
func (c Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Stage      string `mapstructure:"STAGE"`
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	// AWS configuration
	AWSRegion        string `mapstructure:"AWS_REGION"`
	TableName        string `mapstructure:"TABLE_NAME"`
	IndexName        string `mapstructure:"INDEX_NAME"` // GSI1 - memberships by user
	DynamoDBEndpoint string `mapstructure:"DYNAMODB_ENDPOINT"`
	EventBusName     string `mapstructure:"EVENT_BUS_NAME"`

	// Cognito
	CognitoUserPoolID     string `mapstructure:"COGNITO_USER_POOL_ID"`
	CognitoClientID       string `mapstructure:"COGNITO_CLIENT_ID"`
	CognitoRegion         string `mapstructure:"COGNITO_REGION"`
	CognitoDomain         string `mapstructure:"COGNITO_DOMAIN"`
	CognitoAPIRedirectURI string `mapstructure:"COGNITO_API_REDIRECT_URI"`

	// HTTP
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	// Feature flags
	EnableMetrics     bool `mapstructure:"ENABLE_METRICS"`
	EnableTracing     bool `mapstructure:"ENABLE_TRACING"`
	EnableEvents      bool `mapstructure:"ENABLE_EVENTS"`
	EnableCognitoSync bool `mapstructure:"ENABLE_COGNITO_SYNC"`
}

var defaults = map[string]interface{}{
	"STAGE":                    "dev",
	"SERVER_PORT":              "8080",
	"LOG_LEVEL":                "info",
	"AWS_REGION":               "us-east-1",
	"TABLE_NAME":               "",
	"INDEX_NAME":               "GSI1",
	"DYNAMODB_ENDPOINT":        "",
	"EVENT_BUS_NAME":           "",
	"COGNITO_USER_POOL_ID":     "",
	"COGNITO_CLIENT_ID":        "",
	"COGNITO_REGION":           "",
	"COGNITO_DOMAIN":           "",
	"COGNITO_API_REDIRECT_URI": "",
	"CORS_ALLOWED_ORIGINS":     "*",
	"RATE_LIMIT_PER_MINUTE":    120,
	"ENABLE_METRICS":           false,
	"ENABLE_TRACING":           false,
	"ENABLE_EVENTS":            false,
	"ENABLE_COGNITO_SYNC":      false,
}

// LoadConfig reads configuration from the environment and an optional .env file
func LoadConfig() (*Config, error) {
	return load(".")
}

func load(paths ...string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.CognitoRegion == "" {
		cfg.CognitoRegion = cfg.AWSRegion
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	var missing []string
	if c.TableName == "" {
		missing = append(missing, "TABLE_NAME")
	}
	if c.CognitoUserPoolID == "" {
		missing = append(missing, "COGNITO_USER_POOL_ID")
	}
	if c.CognitoClientID == "" {
		missing = append(missing, "COGNITO_CLIENT_ID")
	}
	if c.EnableEvents && c.EventBusName == "" {
		missing = append(missing, "EVENT_BUS_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// IsProduction checks if running in the production stage
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Stage, "prod") || strings.EqualFold(c.Stage, "production")
}

// MetricsNamespace is the CloudWatch namespace for this stage
func (c *Config) MetricsNamespace() string {
	return "FortunasBet-" + strings.ToUpper(c.Stage)
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// ServerAddress is the listen address for the standalone server
func (c *Config) ServerAddress() string {
	return ":" + strings.TrimPrefix(c.ServerPort, ":")
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all settings for the remote model integration.
//
// TimeoutSeconds is the per-attempt timeout for generic calls;
// GenerationTimeoutSeconds overrides it for the flashcard generation
// use case, which tolerates longer model latencies.
type LLMConfig struct {
	APIKey                   string  `mapstructure:"api_key"                    validate:"required"`
	BaseURL                  string  `mapstructure:"base_url"                   validate:"required,url"`
	Model                    string  `mapstructure:"model"                      validate:"required"`
	TimeoutSeconds           int     `mapstructure:"timeout_seconds"            validate:"required,gt=0"`
	GenerationTimeoutSeconds int     `mapstructure:"generation_timeout_seconds" validate:"required,gt=0"`
	MaxRetries               int     `mapstructure:"max_retries"                validate:"gte=0"`
	RetryBaseDelaySeconds    int     `mapstructure:"retry_base_delay_seconds"   validate:"required,gt=0"`
	Temperature              float64 `mapstructure:"temperature"                validate:"gte=0,lte=2"`
	MaxTokens                int     `mapstructure:"max_tokens"                 validate:"required,gt=0"`
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifeMins int    `mapstructure:"conn_max_life_mins" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SchedulerConfig tunes the spaced-repetition engine. Zero values fall back
// to the standard defaults, so deployments only set what they change.
type SchedulerConfig struct {
	MinEaseFactor     int `mapstructure:"min_ease_factor"     validate:"gte=0"`
	MaxEaseFactor     int `mapstructure:"max_ease_factor"     validate:"gte=0"`
	DefaultEaseFactor int `mapstructure:"default_ease_factor" validate:"gte=0"`
	IncorrectPenalty  int `mapstructure:"incorrect_penalty"   validate:"gte=0"`
	FirstInterval     int `mapstructure:"first_interval"      validate:"gte=0"`
	SecondInterval    int `mapstructure:"second_interval"     validate:"gte=0"`
	FastAnswerMs      int `mapstructure:"fast_answer_ms"      validate:"gte=0"`
	SlowAnswerMs      int `mapstructure:"slow_answer_ms"      validate:"gte=0"`
}

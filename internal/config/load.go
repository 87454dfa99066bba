package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces all environment variables read by Load, e.g.
// STUDYLOOP_SERVER_PORT or STUDYLOOP_DATABASE_URL.
const envPrefix = "STUDYLOOP"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values. Returns a populated Config struct or an
// error if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_life_mins", 30)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("scheduler.min_ease_factor", 130)
	v.SetDefault("scheduler.max_ease_factor", 350)
	v.SetDefault("scheduler.default_ease_factor", 250)
	v.SetDefault("scheduler.incorrect_penalty", 20)
	v.SetDefault("scheduler.first_interval", 1)
	v.SetDefault("scheduler.second_interval", 6)
	v.SetDefault("scheduler.fast_answer_ms", 3000)
	v.SetDefault("scheduler.slow_answer_ms", 8000)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults cover everything.
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not surface env-only keys through Unmarshal unless
	// the key is known to viper, so bind each one explicitly.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_life_mins",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"scheduler.min_ease_factor",
		"scheduler.max_ease_factor",
		"scheduler.default_ease_factor",
		"scheduler.incorrect_penalty",
		"scheduler.first_interval",
		"scheduler.second_interval",
		"scheduler.fast_answer_ms",
		"scheduler.slow_answer_ms",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

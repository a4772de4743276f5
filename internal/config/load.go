package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TASKTRACK_AUTH_JWT_SECRET.
const EnvPrefix = "TASKTRACK"

// keys lists every configuration key so that environment variables are
// honored even for keys without a default.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.auth_rate_limit",
	"server.shutdown_timeout",
	"database.driver",
	"database.url",
	"database.name",
	"database.connect_timeout",
	"database.socket_timeout",
	"database.ping_timeout",
	"database.health_interval",
	"database.reconnect_interval",
	"database.max_reconnect_interval",
	"auth.jwt_secret",
	"auth.token_lifetime_minutes",
	"auth.bcrypt_cost",
	"notify.driver",
	"notify.smtp_host",
	"notify.smtp_port",
	"notify.smtp_username",
	"notify.smtp_password",
	"notify.smtp_from",
	"notify.amqp_url",
	"notify.amqp_exchange",
	"notify.amqp_routing_key",
	"notify.queue_size",
	"notify.worker_count",
	"notify.send_timeout",
}

// setDefaults registers defaults for everything except secrets and the
// store address.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.auth_rate_limit", 20)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.name", "taskmanager")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.socket_timeout", 45*time.Second)
	v.SetDefault("database.ping_timeout", 2*time.Second)
	v.SetDefault("database.health_interval", 10*time.Second)
	v.SetDefault("database.reconnect_interval", 5*time.Second)
	v.SetDefault("database.max_reconnect_interval", 30*time.Second)

	v.SetDefault("auth.token_lifetime_minutes", 0)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("notify.driver", NotifySMTP)
	v.SetDefault("notify.smtp_host", "smtp.gmail.com")
	v.SetDefault("notify.smtp_port", 587)
	v.SetDefault("notify.amqp_exchange", "tasktrack.events")
	v.SetDefault("notify.amqp_routing_key", "task.assigned")
	v.SetDefault("notify.queue_size", 100)
	v.SetDefault("notify.worker_count", 2)
	v.SetDefault("notify.send_timeout", 15*time.Second)
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Optional config file: ./config.yaml
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the cross-field rules the tags cannot
// express.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Notify.Driver == NotifyAMQP && cfg.Notify.AMQPURL == "" {
		return fmt.Errorf("config validation failed: notify.amqp_url is required for the amqp driver")
	}

	return nil
}

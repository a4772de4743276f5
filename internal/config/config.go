package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Notify   NotifyConfig   `mapstructure:"notify"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AuthRateLimit is the number of signup/login requests allowed per IP per minute.
	AuthRateLimit   int           `mapstructure:"auth_rate_limit"  validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DatabaseConfig contains the record store address and the connection
// supervision settings used by the gateway.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mongo"`
	URL    string `mapstructure:"url"    validate:"required,url"`
	// Name is the MongoDB database name. Ignored by postgres.
	Name string `mapstructure:"name" validate:"required"`

	ConnectTimeout       time.Duration `mapstructure:"connect_timeout"        validate:"gt=0"`
	SocketTimeout        time.Duration `mapstructure:"socket_timeout"         validate:"gt=0"`
	PingTimeout          time.Duration `mapstructure:"ping_timeout"           validate:"gt=0"`
	HealthInterval       time.Duration `mapstructure:"health_interval"        validate:"gt=0"`
	ReconnectInterval    time.Duration `mapstructure:"reconnect_interval"     validate:"gt=0"`
	MaxReconnectInterval time.Duration `mapstructure:"max_reconnect_interval" validate:"gtefield=ReconnectInterval"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs session tokens. There is deliberately no default.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes of zero issues tokens without an expiry claim.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gte=0"`
	BcryptCost           int `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
}

// Notification sink drivers.
const (
	NotifySMTP = "smtp"
	NotifyAMQP = "amqp"
	NotifyLog  = "log"
)

// NotifyConfig selects and configures the task-assignment notification sink.
type NotifyConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=smtp amqp log"`

	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"     validate:"gt=0,lt=65536"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	SMTPFrom     string `mapstructure:"smtp_from"`

	AMQPURL        string `mapstructure:"amqp_url"`
	AMQPExchange   string `mapstructure:"amqp_exchange"`
	AMQPRoutingKey string `mapstructure:"amqp_routing_key"`

	QueueSize   int           `mapstructure:"queue_size"   validate:"gt=0"`
	WorkerCount int           `mapstructure:"worker_count" validate:"gt=0"`
	SendTimeout time.Duration `mapstructure:"send_timeout" validate:"gt=0"`
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int      `env:"LOG_LEVEL" envDefault:"0"`
	HTTP     HTTP     `envPrefix:"HTTP_"`
	Database Database `envPrefix:"DATABASE_"`
	KDF      KDF      `envPrefix:"KDF_"`
	JWT      JWT      `envPrefix:"JWT_"`
}

// KDF contains argon2id parameters for password hashing.
type KDF struct {
	Time   uint32 `env:"TIME" envDefault:"1"`
	MemKiB uint32 `env:"MEM" envDefault:"65536"`
	Par    uint8  `env:"PAR" envDefault:"2"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string        `env:"PORT" envDefault:"3000"`
	EnableHTTPS        bool          `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string        `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string        `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	AuthRateLimit      int           `env:"AUTH_RATE_LIMIT" envDefault:"20"`
	Production         bool          `env:"PRODUCTION" envDefault:"false"`
}

// Database contains database connection parameters.
type Database struct {
	Driver  string        `env:"DRIVER" envDefault:"mongo"`
	DSN     string        `env:"DSN" envDefault:"mongodb://localhost:27017"`
	Name    string        `env:"NAME" envDefault:"tasks"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// JWT contains JWT-related parameters. The secret has no default: the
// server refuses to start without one.
type JWT struct {
	Secret string `env:"SECRET,required,notEmpty"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Database.Timeout <= 0 {
		return errors.New("database timeout must be positive")
	}

	if c.KDF.Time == 0 || c.KDF.MemKiB == 0 || c.KDF.Par == 0 {
		return errors.New("kdf parameters must be non-zero")
	}

	if c.HTTP.AuthRateLimit <= 0 {
		return errors.New("auth rate limit must be positive")
	}

	return nil
}

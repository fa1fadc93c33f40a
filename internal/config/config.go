package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the ordering site backend
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Store    StoreConfig    `yaml:"store"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	URL      string `yaml:"url"`
}

// RabbitMQConfig holds RabbitMQ connection configuration. An empty host
// disables messaging.
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	URL      string `yaml:"url"`
}

// StoreConfig selects where the cart is persisted and how fast views re-read it.
// Path is a directory for the file backend and a database file for sqlite.
type StoreConfig struct {
	Backend      string        `yaml:"backend"`
	Path         string        `yaml:"path"`
	Key          string        `yaml:"key"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// CheckoutConfig holds the derived-total rules and payment simulation settings
type CheckoutConfig struct {
	TaxBasisPoints int64         `yaml:"tax_basis_points"`
	DeliveryFee    int64         `yaml:"delivery_fee"`
	ClearOnSuccess bool          `yaml:"clear_on_success"`
	PaymentDelay   time.Duration `yaml:"payment_delay"`
}

// AuthConfig holds the simulated auth provider settings
type AuthConfig struct {
	CountryCode string        `yaml:"country_code"`
	OTPLength   int           `yaml:"otp_length"`
	OTPTTL      time.Duration `yaml:"otp_ttl"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// newConfig pre-fills the fields where zero is a meaningful setting, so a
// YAML file can still set them to zero explicitly
func newConfig() *Config {
	return &Config{
		Checkout: CheckoutConfig{
			TaxBasisPoints: 500,
			DeliveryFee:    50,
		},
	}
}

// Load reads configuration from a YAML file, fills defaults and applies
// environment overrides
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML bytes into a validated Config
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills defaults and validates after fields were changed in code
func (c *Config) Normalize() error {
	c.applyDefaults()
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = 5672
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendFile
	}
	if c.Store.Path == "" {
		switch c.Store.Backend {
		case BackendSQLite:
			c.Store.Path = "data/cart.db"
		default:
			c.Store.Path = "data"
		}
	}
	if c.Store.Key == "" {
		c.Store.Key = "orderItems"
	}
	if c.Store.PollInterval == 0 {
		c.Store.PollInterval = 500 * time.Millisecond
	}
	if c.Checkout.PaymentDelay == 0 {
		c.Checkout.PaymentDelay = 2 * time.Second
	}
	if c.Auth.CountryCode == "" {
		c.Auth.CountryCode = "+91"
	}
	if c.Auth.OTPLength == 0 {
		c.Auth.OTPLength = 6
	}
	if c.Auth.OTPTTL == 0 {
		c.Auth.OTPTTL = 5 * time.Minute
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = 24 * time.Hour
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CART_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("CART_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.RabbitMQ.URL = v
	}
}

// Validate rejects values the services cannot run with
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.DatabaseURL() == "" {
			return fmt.Errorf("store.backend postgres requires database settings")
		}
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}
	if c.Store.PollInterval < 10*time.Millisecond {
		return fmt.Errorf("store.poll_interval must be at least 10ms")
	}
	if c.Checkout.TaxBasisPoints < 0 || c.Checkout.DeliveryFee < 0 {
		return fmt.Errorf("checkout amounts must not be negative")
	}
	if c.Auth.OTPLength < 4 || c.Auth.OTPLength > 10 {
		return fmt.Errorf("auth.otp_length must be between 4 and 10")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL, or "" when no database is configured
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL, or "" when messaging is disabled
func (c *Config) RabbitMQURL() string {
	if c.RabbitMQ.URL != "" {
		return c.RabbitMQ.URL
	}
	if c.RabbitMQ.Host == "" {
		return ""
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

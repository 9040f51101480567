package config

import (
	"fmt"
	"os"
	"strconv"
)

// Payment modes. Sandbox skips the outbound provider call and redirects
// straight to the local order-status page.
const (
	PaymentModeLive    = "live"
	PaymentModeSandbox = "sandbox"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logger     LoggerConfig
	Payment    PaymentConfig
	CouponSeed CouponSeedConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// PaymentConfig holds payment provider configuration. SaltKey and SaltIndex
// are the shared secret material used for request signing and callback
// verification.
type PaymentConfig struct {
	Mode           string // "live" or "sandbox"
	MerchantID     string
	SaltKey        string
	SaltIndex      string
	PayAPIURL      string
	BaseURL        string // public base URL for redirect and callback URLs
	TimeoutSeconds int
}

// CouponSeedConfig holds configuration for the coupon seed importer, which
// loads coupon definitions from a local JSON file or S3 at startup.
type CouponSeedConfig struct {
	Enabled   bool
	FilePath  string
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Key     string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "urbankart"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Payment: PaymentConfig{
			Mode:           getEnv("PAYMENT_MODE", PaymentModeSandbox),
			MerchantID:     getEnv("PAYMENT_MERCHANT_ID", ""),
			SaltKey:        getEnv("PAYMENT_SALT_KEY", ""),
			SaltIndex:      getEnv("PAYMENT_SALT_INDEX", "1"),
			PayAPIURL:      getEnv("PAYMENT_PAY_API_URL", ""),
			BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
			TimeoutSeconds: getEnvAsInt("PAYMENT_TIMEOUT_SECONDS", 10),
		},
		CouponSeed: CouponSeedConfig{
			Enabled:   getEnvAsBool("COUPON_SEED_ENABLED", false),
			FilePath:  getEnv("COUPON_SEED_FILE", "data/coupons.json"),
			S3Enabled: getEnvAsBool("COUPON_SEED_S3_ENABLED", false),
			S3Bucket:  getEnv("COUPON_SEED_S3_BUCKET", ""),
			S3Region:  getEnv("COUPON_SEED_S3_REGION", "ap-south-1"),
			S3Key:     getEnv("COUPON_SEED_S3_KEY", "coupons/coupons.json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Payment.Mode != PaymentModeLive && c.Payment.Mode != PaymentModeSandbox {
		return fmt.Errorf("invalid payment mode: %s (must be live or sandbox)", c.Payment.Mode)
	}

	if c.Payment.SaltKey == "" {
		return fmt.Errorf("payment salt key is required")
	}

	if c.Payment.Mode == PaymentModeLive {
		if c.Payment.MerchantID == "" {
			return fmt.Errorf("payment merchant ID is required in live mode")
		}
		if c.Payment.PayAPIURL == "" {
			return fmt.Errorf("payment API URL is required in live mode")
		}
	}

	if c.Payment.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.CouponSeed.Enabled && c.CouponSeed.S3Enabled {
		if c.CouponSeed.S3Bucket == "" {
			return fmt.Errorf("coupon seed S3 bucket is required when S3 is enabled")
		}
		if c.CouponSeed.S3Region == "" {
			return fmt.Errorf("coupon seed S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

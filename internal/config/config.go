package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the quickbites services
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Pricing  PricingConfig
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// PricingConfig holds the fixed pricing policy
type PricingConfig struct {
	// TaxRateBasisPoints is the tax rate in basis points (800 = 8%).
	TaxRateBasisPoints int
	// DefaultDeliveryFee in minor currency units, applied when a
	// restaurant record carries no fee of its own.
	DefaultDeliveryFee int64
	// DefaultDeliveryMinutes applied when a restaurant record carries no ETA.
	DefaultDeliveryMinutes int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Port: getenvInt("HTTP_PORT", 3000),
		},
		Database: DatabaseConfig{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenvInt("DB_PORT", 5432),
			User:     getenv("DB_USER", "quickbites"),
			Password: getenv("DB_PASSWORD", "quickbites"),
			Database: getenv("DB_NAME", "quickbites"),
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", "localhost:6379"),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			Host:     getenv("RABBITMQ_HOST", "localhost"),
			Port:     getenvInt("RABBITMQ_PORT", 5672),
			User:     getenv("RABBITMQ_USER", "guest"),
			Password: getenv("RABBITMQ_PASSWORD", "guest"),
		},
		Pricing: PricingConfig{
			TaxRateBasisPoints:     getenvInt("TAX_RATE_BASIS_POINTS", 800),
			DefaultDeliveryFee:     int64(getenvInt("DEFAULT_DELIVERY_FEE", 500)),
			DefaultDeliveryMinutes: getenvInt("DEFAULT_DELIVERY_MINUTES", 45),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTP.Port)
	}
	if c.Pricing.TaxRateBasisPoints < 0 {
		return fmt.Errorf("invalid TAX_RATE_BASIS_POINTS: %d", c.Pricing.TaxRateBasisPoints)
	}
	if c.Pricing.DefaultDeliveryFee < 0 {
		return fmt.Errorf("invalid DEFAULT_DELIVERY_FEE: %d", c.Pricing.DefaultDeliveryFee)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

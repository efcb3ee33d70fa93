package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"freight-admin/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	Host           string
	Port           string
	Env            string
	FrontendURL    string
	PublicSiteURL  string
	LogDir         string
	RequestTimeout time.Duration
	Database       DatabaseConfig
	Auth           AuthConfig
	Mail           MailConfig
	RabbitMQ       RabbitMQConfig
	Kafka          KafkaConfig
	Storage        StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type AuthConfig struct {
	// JWTSecret verifies HS256 tokens. When empty, tokens are verified
	// against the RSA key served at PublicKeyURL.
	JWTSecret    string
	PublicKeyURL string
}

type MailConfig struct {
	Driver       string // resend, rabbitmq or log
	ResendAPIKey string
	ResendURL    string
	From         string
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

// Enabled reports whether status events should be published.
func (k KafkaConfig) Enabled() bool {
	return k.Broker != "" && k.Topic != ""
}

type StorageConfig struct {
	URL        string
	ServiceKey string
	Bucket     string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file loaded, using process environment")
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Host:           getEnv("APP_HOST", "0.0.0.0"),
		Port:           getEnv("APP_PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		FrontendURL:    getEnv("FRONTEND_URL", "*"),
		PublicSiteURL:  strings.TrimRight(getEnv("PUBLIC_SITE_URL", "https://portal.fg360transportes.com.br"), "/"),
		LogDir:         getEnv("LOG_DIR", "log/app"),
		RequestTimeout: timeout,
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USERNAME", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_DATABASE", "freight"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			PublicKeyURL: os.Getenv("PUBLIC_KEY_URL"),
		},
		Mail: MailConfig{
			Driver:       strings.ToLower(getEnv("MAIL_DRIVER", "log")),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			ResendURL:    getEnv("RESEND_URL", "https://api.resend.com"),
			From:         getEnv("MAIL_FROM", "FG360 Transportes <contato@fg360transportes.com.br>"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   os.Getenv("RABBITMQ_URL"),
			Queue: getEnv("EMAIL_QUEUE", "email_jobs"),
		},
		Kafka: KafkaConfig{
			Broker: os.Getenv("KAFKA_BROKER"),
			Topic:  getEnv("KAFKA_TOPIC", "shipment.status_changed"),
		},
		Storage: StorageConfig{
			URL:        strings.TrimRight(os.Getenv("STORAGE_URL"), "/"),
			ServiceKey: os.Getenv("STORAGE_SERVICE_KEY"),
			Bucket:     getEnv("STORAGE_BUCKET", "pacotes"),
		},
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Host == "" || c.Database.DBName == "" {
		errs = append(errs, errors.New("DB_HOST and DB_DATABASE are required"))
	}
	if c.Auth.JWTSecret == "" && c.Auth.PublicKeyURL == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or PUBLIC_KEY_URL is required"))
	}
	switch c.Mail.Driver {
	case "log":
	case "resend":
		if c.Mail.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for MAIL_DRIVER=resend"))
		}
	case "rabbitmq":
		if c.RabbitMQ.URL == "" {
			errs = append(errs, errors.New("RABBITMQ_URL is required for MAIL_DRIVER=rabbitmq"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.Mail.Driver))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

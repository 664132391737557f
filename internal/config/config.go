package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rise-rentals/service-booking/internal/common/config"
)

// Notifier drivers.
const (
	NotifierLog   = "log"
	NotifierKafka = "kafka"
	NotifierAMQP  = "amqp"
	NotifierEmail = "email"
)

// MailConfig holds the transactional email API settings.
type MailConfig struct {
	APIKey string
	From   string
	APIURL string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port                  string
	AppEnv                string
	DBConfig              config.DatabaseConfig
	JWTConfig             config.JWTConfig
	KafkaConfig           config.KafkaConfig
	RedisURL              string
	CapacityCacheTTL      time.Duration
	NotifierDriver        string
	AMQPURL               string
	AMQPExchange          string
	Mail                  MailConfig
	StrictUpdate          bool
	SerializableAdmission bool
	MigrationsDir         string
	OTLPEndpoint          string
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "rise_booking")
	v.SetDefault("CAPACITY_CACHE_TTL", "30s")
	v.SetDefault("NOTIFIER_DRIVER", NotifierLog)
	v.SetDefault("AMQP_EXCHANGE", "booking.exchange")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	cfg := &ServiceConfig{
		Port:                  config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:                config.GetAppEnv(v),
		DBConfig:              config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:             config.LoadJWTConfig(v),
		KafkaConfig:           config.LoadKafkaConfig(v),
		RedisURL:              v.GetString("REDIS_URL"),
		CapacityCacheTTL:      v.GetDuration("CAPACITY_CACHE_TTL"),
		NotifierDriver:        strings.ToLower(strings.TrimSpace(v.GetString("NOTIFIER_DRIVER"))),
		AMQPURL:               v.GetString("AMQP_URL"),
		AMQPExchange:          v.GetString("AMQP_EXCHANGE"),
		StrictUpdate:          v.GetBool("STRICT_UPDATE"),
		SerializableAdmission: v.GetBool("SERIALIZABLE_ADMISSION"),
		MigrationsDir:         v.GetString("MIGRATIONS_DIR"),
		OTLPEndpoint:          v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Mail: MailConfig{
			APIKey: v.GetString("MAIL_API_KEY"),
			From:   v.GetString("MAIL_FROM"),
			APIURL: v.GetString("MAIL_API_URL"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServiceConfig) validate() error {
	switch c.NotifierDriver {
	case NotifierLog, NotifierKafka, NotifierEmail:
	case NotifierAMQP:
		if c.AMQPURL == "" {
			return fmt.Errorf("BOOKING_AMQP_URL is required for the amqp notifier")
		}
	default:
		return fmt.Errorf("unknown notifier driver %q", c.NotifierDriver)
	}
	if c.AppEnv != "development" && c.AppEnv != "test" && c.JWTConfig.Secret == "" {
		return fmt.Errorf("BOOKING_JWT_SECRET is required outside development")
	}
	return nil
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	APP struct {
		Name        string
		Host        string
		Port        string
		Env         string
		Version     string
		LogLevel    string
		JWTSecret   string
		CORSOrigins []string
		// RateLimit uses the limiter format, e.g. "100-M". Empty disables it.
		RateLimit string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		MaxConns int32
		MinConns int32
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	SMTP struct {
		Host     string
		Port     string
		User     string
		Password string
		From     string
	}

	Config struct {
		App   APP
		DB    DB
		Redis Redis
		MQ    MQ
		SMTP  SMTP
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvList(key, def string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(key, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func Load() Config {
	app := APP{
		Name:        getEnv("SERVICE_NAME", "userregistry"),
		Host:        getEnv("SERVICE_HOST", "0.0.0.0"),
		Port:        getEnv("SERVICE_PORT", "8000"),
		Env:         getEnv("SERVICE_ENV", "dev"),
		Version:     getEnv("SERVICE_VERSION", "1.0.0"),
		LogLevel:    getEnv("SERVICE_LOG_LEVEL", "info"),
		JWTSecret:   getEnv("SERVICE_JWT_SECRET", ""),
		CORSOrigins: getEnvList("SERVICE_CORS_ORIGINS", "*"),
		RateLimit:   getEnv("SERVICE_RATE_LIMIT", ""),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		MaxConns: int32(getEnvInt("POSTGRES_MAX_CONNS", 10)),
		MinConns: int32(getEnvInt("POSTGRES_MIN_CONNS", 2)),
	}
	redis := Redis{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      getEnvDuration("REDIS_TTL", 5*time.Minute),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "users"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "users.events"),
	}
	smtp := SMTP{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getEnv("SMTP_PORT", "587"),
		User:     getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
	}

	return Config{
		App:   app,
		DB:    db,
		Redis: redis,
		MQ:    mq,
		SMTP:  smtp,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

func (r Redis) Enabled() bool { return r.Addr != "" }
func (m MQ) Enabled() bool    { return m.Host != "" }
func (s SMTP) Enabled() bool  { return s.Host != "" && s.From != "" }

// IsProduction matches the env names gin and ops tooling use for release builds.
func (a APP) IsProduction() bool {
	switch strings.ToLower(a.Env) {
	case "release", "prod", "production":
		return true
	}
	return false
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Booking  BookingConfig
	Location *time.Location
}

type ServerConfig struct {
	Host         string
	Port         int
	CORSOrigins  []string
	SecureCookie bool
}

type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int32
}

// DSN returns the pgx connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// RabbitMQConfig is optional; booking notifications are off without a URL.
type RabbitMQConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
	AdminRole string
}

type CacheConfig struct {
	ShowsTTL       time.Duration
	PerformanceTTL time.Duration
	AdminListTTL   time.Duration
}

type BookingConfig struct {
	SessionTTL      time.Duration
	IdempotencyTTL  time.Duration
	RateLimit       int
	RateLimitWindow time.Duration
}

func defaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("COOKIE_SECURE", false)

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:5098")
	v.SetDefault("BACKEND_TIMEOUT", "15s")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_MAX_CONNS", 10)

	v.SetDefault("REDIS_ADDR", "localhost:6380")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)

	v.SetDefault("ADMIN_ROLE", "Admin")

	v.SetDefault("CACHE_SHOWS_TTL", "60s")
	v.SetDefault("CACHE_PERFORMANCE_TTL", "15s")
	v.SetDefault("CACHE_ADMIN_LIST_TTL", "5m")

	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("IDEMPOTENCY_TTL", "2h")
	v.SetDefault("BOOKING_RATE_LIMIT", 5)
	v.SetDefault("BOOKING_RATE_WINDOW", "1m")

	v.SetDefault("TIMEZONE", "Local")
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	serverPort := v.GetInt("SERVER_PORT")
	if serverPort <= 0 {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT %q", op, v.GetString("SERVER_PORT"))
	}

	postgresPort := v.GetInt("POSTGRES_PORT")
	if postgresPort <= 0 {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT %q", op, v.GetString("POSTGRES_PORT"))
	}

	for _, key := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB"} {
		if v.GetString(key) == "" {
			return nil, fmt.Errorf("%s: missing %s", op, key)
		}
	}

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid TIMEZONE: %w", op, err)
	}

	durations := map[string]time.Duration{}
	for _, key := range []string{
		"BACKEND_TIMEOUT",
		"CACHE_SHOWS_TTL",
		"CACHE_PERFORMANCE_TTL",
		"CACHE_ADMIN_LIST_TTL",
		"SESSION_TTL",
		"IDEMPOTENCY_TTL",
		"BOOKING_RATE_WINDOW",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%s: invalid %s %q", op, key, v.GetString(key))
		}
		durations[key] = d
	}

	return &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         serverPort,
			CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
			SecureCookie: v.GetBool("COOKIE_SECURE"),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/"),
			Timeout: durations["BACKEND_TIMEOUT"],
		},
		Postgres: PostgresConfig{
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			Name:     v.GetString("POSTGRES_DB"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     postgresPort,
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
			MaxConns: v.GetInt32("POSTGRES_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: v.GetString("RABBITMQ_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			AdminRole: v.GetString("ADMIN_ROLE"),
		},
		Cache: CacheConfig{
			ShowsTTL:       durations["CACHE_SHOWS_TTL"],
			PerformanceTTL: durations["CACHE_PERFORMANCE_TTL"],
			AdminListTTL:   durations["CACHE_ADMIN_LIST_TTL"],
		},
		Booking: BookingConfig{
			SessionTTL:      durations["SESSION_TTL"],
			IdempotencyTTL:  durations["IDEMPOTENCY_TTL"],
			RateLimit:       max(v.GetInt("BOOKING_RATE_LIMIT"), 1),
			RateLimitWindow: durations["BOOKING_RATE_WINDOW"],
		},
		Location: loc,
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

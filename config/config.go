package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	// DB
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"seasonal_booking"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// RabbitMQ is optional; without it lifecycle events are not published
	// and the catalog sync consumer does not start.
	RabbitURL string `envconfig:"RABBITMQ_URL"`

	// JWT
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"12h"`

	DisplayTimezone string `envconfig:"DISPLAY_TIMEZONE" default:"Europe/Berlin"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	OtelEnabled     bool   `envconfig:"OTEL_ENABLED" default:"false"`

	// Seed
	SeedOnStart       bool   `envconfig:"SEED_ON_START" default:"true"`
	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL" default:"admin@example.com"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`

	location *time.Location
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}
	if c.JWTSecret == "" {
		return c, errors.New("load config: JWT_SECRET must not be empty")
	}

	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return c, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	c.location = loc

	return c, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Location is the display timezone for the public calendar. It falls back
// to UTC only for a Config that did not come from Load.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

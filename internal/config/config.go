package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN                string
	Port                 string
	Environment          string
	JWTSecret            string
	TelegramToken        string
	TelegramAdminChatID  int64
	RequestTimeoutSec    int
	StaleBookingTTLHours int
	MigrationsPath       string
}

func Load() (*Config, error) {
	// .env is optional; real deployments pass environment variables.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Port:           os.Getenv("PORT"),
		Environment:    os.Getenv("ENV"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	var err error
	cfg.TelegramAdminChatID, err = parseInt64(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 0)
	if err != nil {
		return nil, fmt.Errorf("parse TELEGRAM_ADMIN_CHAT_ID: %w", err)
	}
	timeout, err := parseInt64(os.Getenv("REQUEST_TIMEOUT_SECONDS"), 30)
	if err != nil {
		return nil, fmt.Errorf("parse REQUEST_TIMEOUT_SECONDS: %w", err)
	}
	cfg.RequestTimeoutSec = int(timeout)
	ttl, err := parseInt64(os.Getenv("STALE_BOOKING_TTL_HOURS"), 72)
	if err != nil {
		return nil, fmt.Errorf("parse STALE_BOOKING_TTL_HOURS: %w", err)
	}
	cfg.StaleBookingTTLHours = int(ttl)

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}

func parseInt64(raw string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv            string
	Addr              string
	DbDriver          string
	DbDsn             string
	DbLogLevel        string
	JwtSecret         string
	JwtAccessMinutes  int
	JwtRefreshHours   int
	SessionSecret     string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SmtpHost          string
	SmtpPort          int
	SmtpUser          string
	SmtpPass          string
	SmtpFrom          string
	AllowedOriginsRaw string
	Timezone          string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		Addr:              getEnv("APP_ADDR", ":8080"),
		DbDriver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DbDsn:             os.Getenv("DB_DSN"),
		DbLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		JwtSecret:         os.Getenv("JWT_SECRET"),
		JwtAccessMinutes:  getEnvInt("JWT_ACCESS_MINUTES", 60),
		JwtRefreshHours:   getEnvInt("JWT_REFRESH_HOURS", 168),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		SmtpHost:          os.Getenv("SMTP_HOST"),
		SmtpPort:          getEnvInt("SMTP_PORT", 587),
		SmtpUser:          os.Getenv("SMTP_USER"),
		SmtpPass:          os.Getenv("SMTP_PASS"),
		SmtpFrom:          os.Getenv("SMTP_FROM"),
		AllowedOriginsRaw: getEnv("ALLOWED_ORIGINS", ""),
		Timezone:          getEnv("TIMEZONE", "Local"),
	}

	if cfg.DbDriver == DriverSQLite && cfg.DbDsn == "" {
		cfg.DbDsn = "hrdesk.db"
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.JwtSecret
	}

	missing := []string{}
	if cfg.DbDsn == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.JwtSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.SmtpHost != "" && cfg.SmtpFrom == "" {
		missing = append(missing, "SMTP_FROM")
	}

	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	switch cfg.DbDriver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return cfg, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DbDriver)
	}

	if _, err := cfg.Location(); err != nil {
		return cfg, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Location is the zone used for day and month boundaries.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "Local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c Config) AllowedOrigins() []string {
	origins := []string{}
	for _, origin := range strings.Split(c.AllowedOriginsRaw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"

	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/database"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	TimeClock TimeClockConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Dashboard DashboardConfig
	Incidence IncidenceConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name        string
	Version     string
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	Location    *time.Location
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// TimeClockConfig is the read-only MySQL database the attendance terminal writes to.
type TimeClockConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Table    string
	Timeout  time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
	SecureCookie     bool
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type DashboardConfig struct {
	RefreshInterval time.Duration
	ClockInterval   time.Duration
	SnapshotTTL     time.Duration
}

type IncidenceConfig struct {
	Path  string
	Watch bool
}

// Load reads the environment, after loading .env when there is one.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var (
		config = &Config{}
		p      parser
	)

	// Application configuration
	config.App = AppConfig{
		Name:        getEnv("APP_NAME", "hr-portal"),
		Version:     getEnv("APP_VERSION", "v1.0.0"),
		Port:        p.int("APP_PORT", 8080),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "America/Mexico_City"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}
	loc, err := time.LoadLocation(config.App.Timezone)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid APP_TIMEZONE: %w", err))
		loc = time.UTC
	}
	config.App.Location = loc

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     p.int("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hr_portal"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(p.int("DB_MAX_CONNS", 25)),
	}

	// Time clock (MySQL) configuration
	config.TimeClock = TimeClockConfig{
		Host:     getEnv("TIMECLOCK_DB_HOST", "localhost"),
		Port:     p.int("TIMECLOCK_DB_PORT", 3306),
		User:     getEnv("TIMECLOCK_DB_USER", "root"),
		Password: getEnv("TIMECLOCK_DB_PASSWORD", ""),
		Name:     getEnv("TIMECLOCK_DB_NAME", "checador"),
		Table:    getEnv("TIMECLOCK_TABLE", "asistencia"),
		Timeout:  p.duration("TIMECLOCK_TIMEOUT", 3*time.Second),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: p.duration("JWT_ACCESS_EXPIRATION_TIME", 8*time.Hour),
		SecureCookie:     p.bool("JWT_SECURE_COOKIE", false),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads/blog"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "/api/v1/images"),
	}

	config.Dashboard = DashboardConfig{
		RefreshInterval: p.duration("DASHBOARD_REFRESH_INTERVAL", time.Minute),
		ClockInterval:   p.duration("DASHBOARD_CLOCK_INTERVAL", time.Second),
		SnapshotTTL:     p.duration("DASHBOARD_SNAPSHOT_TTL", 30*time.Minute),
	}

	config.Incidence = IncidenceConfig{
		Path:  getEnv("INCIDENCE_TABLE_PATH", "config/incidences.yaml"),
		Watch: p.bool("INCIDENCE_TABLE_WATCH", true),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.TimeClock.Name == "" {
		return fmt.Errorf("TIMECLOCK_DB_NAME is required")
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	if c.Dashboard.RefreshInterval < time.Second {
		return fmt.Errorf("DASHBOARD_REFRESH_INTERVAL must be at least 1s")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// TimeClockDB returns the connection settings for the attendance source.
func (c *Config) TimeClockDB() database.TimeClockConfig {
	return database.TimeClockConfig{
		Host:     c.TimeClock.Host,
		Port:     c.TimeClock.Port,
		User:     c.TimeClock.User,
		Password: c.TimeClock.Password,
		Name:     c.TimeClock.Name,
		Timeout:  c.TimeClock.Timeout,
	}
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// parser collects every malformed variable so they are reported together.
type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return v
}

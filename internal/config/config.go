package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/orderdesk/internal/models"
	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Search   SearchConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	AutoMigrate       bool
}

type ServerConfig struct {
	Port              string
	Env               string
	LogLevel          string
	AllowedOrigins    []string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestTimeout    time.Duration
	RateLimitPerMin   int
	PoolStatsInterval time.Duration
}

type AuthConfig struct {
	Enabled   bool
	JWTSecret string
}

// SearchConfig holds the paging limits and per-resource field profiles
type SearchConfig struct {
	DefaultPageSize   int
	MaxPageSize       int
	Location          *time.Location
	OrderFields       []models.SearchField
	CustomerFields    []models.SearchField
	OrderCustomerType []string
}

// DefaultOrderSearchFields is the dashboard's order search profile.
const DefaultOrderSearchFields = "sample.haplid:prefix,sample.intimation_hapl_id:prefix,sample.current_status:prefix," +
	"patient.first_name:prefix,patient.last_name:prefix," +
	"customer.first_name:prefix,customer.last_name:prefix," +
	"order_id:prefix,product_name:prefix"

const DefaultCustomerSearchFields = "first_name:prefix,last_name:prefix,customer_type:prefix,organisation.name:prefix"

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "orderdesk"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
			AutoMigrate:       getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Server: ServerConfig{
			Port:              getEnv("PORT", "8080"),
			Env:               env,
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			AllowedOrigins:    parseAllowedOrigins(env),
			ReadTimeout:       getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
			RateLimitPerMin:   getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			PoolStatsInterval: getEnvAsDuration("POOL_STATS_INTERVAL", 5*time.Minute),
		},
		Auth: AuthConfig{
			Enabled:   getEnvAsBool("AUTH_ENABLED", true),
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is true")
		}
		if err := validateJWTSecret(cfg.Auth.JWTSecret, env); err != nil {
			return nil, err
		}
	}

	search, err := loadSearchConfig()
	if err != nil {
		return nil, err
	}
	cfg.Search = *search

	return cfg, nil
}

func loadSearchConfig() (*SearchConfig, error) {
	cfg := &SearchConfig{
		DefaultPageSize:   getEnvAsInt("SEARCH_DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:       getEnvAsInt("SEARCH_MAX_PAGE_SIZE", 100),
		OrderCustomerType: splitList(getEnvRaw("ORDER_CUSTOMER_TYPES", "B2C,B2D")),
	}

	if cfg.DefaultPageSize <= 0 || cfg.MaxPageSize <= 0 {
		return nil, fmt.Errorf("SEARCH_DEFAULT_PAGE_SIZE and SEARCH_MAX_PAGE_SIZE must be positive")
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		return nil, fmt.Errorf("SEARCH_DEFAULT_PAGE_SIZE (%d) exceeds SEARCH_MAX_PAGE_SIZE (%d)",
			cfg.DefaultPageSize, cfg.MaxPageSize)
	}

	loc, err := time.LoadLocation(getEnv("SEARCH_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("SEARCH_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.OrderFields, err = ParseSearchFields(getEnv("ORDER_SEARCH_FIELDS", DefaultOrderSearchFields)); err != nil {
		return nil, fmt.Errorf("ORDER_SEARCH_FIELDS: %w", err)
	}
	if cfg.CustomerFields, err = ParseSearchFields(getEnv("CUSTOMER_SEARCH_FIELDS", DefaultCustomerSearchFields)); err != nil {
		return nil, fmt.Errorf("CUSTOMER_SEARCH_FIELDS: %w", err)
	}

	return cfg, nil
}

// ParseSearchFields parses a comma-separated list of field:mode[:cs] entries.
// A trailing cs marks the field as case-sensitive.
func ParseSearchFields(list string) ([]models.SearchField, error) {
	var fields []models.SearchField
	seen := make(map[string]bool)

	for _, entry := range splitList(list) {
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" {
			return nil, fmt.Errorf("invalid search field %q, expected field:mode[:cs]", entry)
		}

		mode, err := models.ParseMatchMode(parts[1])
		if err != nil {
			return nil, fmt.Errorf("search field %q: %w", parts[0], err)
		}

		field := models.SearchField{Name: parts[0], Mode: mode}
		if len(parts) == 3 {
			if parts[2] != "cs" {
				return nil, fmt.Errorf("search field %q: unknown flag %q", parts[0], parts[2])
			}
			field.CaseSensitive = true
		}

		if seen[field.Name] {
			return nil, fmt.Errorf("search field %q listed twice", field.Name)
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one search field is required")
	}
	return fields, nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// getEnvRaw distinguishes an empty value from an unset one.
func getEnvRaw(key, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return splitList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: the dashboard dev servers
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"sensitive-field-gate/internal/core/domain"
)

// Role store backends
const (
	RoleStoreSQL    = "sql"
	RoleStoreCasbin = "casbin"
)

// Notification channels
const (
	NotifierStore = "store"
	NotifierRedis = "redis"
)

// Config is the service configuration.
type Config struct {
	Port        string
	DBDriver    string
	DBDSN       string
	RoleStore   string
	CasbinTable string
	Notifier    string
	RedisAddr   string
	RedisStream string
	LogLevel    string
	LogFormat   string
	Policy      domain.Policy
}

// Load reads an optional .env file and then the environment.
func Load() (Config, error) {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables, falling back to defaults.
func FromEnv() (Config, error) {
	defaults := domain.DefaultPolicy()

	iconType, err := envInt("SENSITIVE_NOTIFICATION_ICON_TYPE", defaults.IconType)
	if err != nil {
		return Config{}, err
	}
	toastType, err := envInt("SENSITIVE_NOTIFICATION_TOAST_TYPE", defaults.ToastType)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:        GetEnvOrDefault("PORT", "8080"),
		DBDriver:    GetEnvOrDefault("DB_DRIVER", "sqlite"),
		DBDSN:       GetEnvOrDefault("DB_DSN", "sensitive_gate.db"),
		RoleStore:   GetEnvOrDefault("ROLE_STORE", RoleStoreSQL),
		CasbinTable: GetEnvOrDefault("CASBIN_TABLE", "rbac_rules"),
		Notifier:    GetEnvOrDefault("NOTIFIER", NotifierStore),
		RedisAddr:   GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisStream: GetEnvOrDefault("REDIS_STREAM", "app-notifications"),
		LogLevel:    GetEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:   GetEnvOrDefault("LOG_FORMAT", "json"),
		Policy: domain.Policy{
			RoleName:           GetEnvOrDefault("SENSITIVE_ROLE_NAME", defaults.RoleName),
			EntityName:         GetEnvOrDefault("SENSITIVE_ENTITY", defaults.EntityName),
			ProtectedAttribute: GetEnvOrDefault("SENSITIVE_ATTRIBUTE", defaults.ProtectedAttribute),
			SecretAttribute:    GetEnvOrDefault("SENSITIVE_SECRET_ATTRIBUTE", defaults.SecretAttribute),
			Placeholder:        GetEnvOrDefault("SENSITIVE_PLACEHOLDER", defaults.Placeholder),
			NotificationTitle:  GetEnvOrDefault("SENSITIVE_NOTIFICATION_TITLE", defaults.NotificationTitle),
			NotificationBody:   GetEnvOrDefault("SENSITIVE_NOTIFICATION_BODY", defaults.NotificationBody),
			IconType:           iconType,
			ToastType:          toastType,
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the backend selections and the policy.
func (c Config) Validate() error {
	switch c.RoleStore {
	case RoleStoreSQL, RoleStoreCasbin:
	default:
		return fmt.Errorf("invalid ROLE_STORE %q, valid options: %s, %s", c.RoleStore, RoleStoreSQL, RoleStoreCasbin)
	}
	switch c.Notifier {
	case NotifierStore, NotifierRedis:
	default:
		return fmt.Errorf("invalid NOTIFIER %q, valid options: %s, %s", c.Notifier, NotifierStore, NotifierRedis)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN cannot be empty")
	}
	return c.Policy.Validate()
}

// GetEnvOrDefault returns the value of key, or fallback when unset or empty.
func GetEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

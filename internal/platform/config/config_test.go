package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensitive-field-gate/internal/core/domain"
)

var configKeys = []string{
	"PORT", "DB_DRIVER", "DB_DSN", "ROLE_STORE", "CASBIN_TABLE", "NOTIFIER",
	"REDIS_ADDR", "REDIS_STREAM", "LOG_LEVEL", "LOG_FORMAT",
	"SENSITIVE_ROLE_NAME", "SENSITIVE_ENTITY", "SENSITIVE_ATTRIBUTE", "SENSITIVE_SECRET_ATTRIBUTE",
	"SENSITIVE_PLACEHOLDER", "SENSITIVE_NOTIFICATION_TITLE", "SENSITIVE_NOTIFICATION_BODY",
	"SENSITIVE_NOTIFICATION_ICON_TYPE", "SENSITIVE_NOTIFICATION_TOAST_TYPE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, RoleStoreSQL, cfg.RoleStore)
	assert.Equal(t, NotifierStore, cfg.Notifier)
	assert.Equal(t, "rbac_rules", cfg.CasbinTable)
	assert.Equal(t, domain.DefaultPolicy(), cfg.Policy)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ROLE_STORE", RoleStoreCasbin)
	t.Setenv("NOTIFIER", NotifierRedis)
	t.Setenv("SENSITIVE_ROLE_NAME", "Payroll")
	t.Setenv("SENSITIVE_ENTITY", "contact")
	t.Setenv("SENSITIVE_ATTRIBUTE", "salary")
	t.Setenv("SENSITIVE_SECRET_ATTRIBUTE", "confidential")
	t.Setenv("SENSITIVE_PLACEHOLDER", "###")
	t.Setenv("SENSITIVE_NOTIFICATION_ICON_TYPE", "100000003")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, RoleStoreCasbin, cfg.RoleStore)
	assert.Equal(t, NotifierRedis, cfg.Notifier)
	assert.Equal(t, "Payroll", cfg.Policy.RoleName)
	assert.Equal(t, "contact", cfg.Policy.EntityName)
	assert.Equal(t, "salary", cfg.Policy.ProtectedAttribute)
	assert.Equal(t, "confidential", cfg.Policy.SecretAttribute)
	assert.Equal(t, "###", cfg.Policy.Placeholder)
	assert.Equal(t, 100000003, cfg.Policy.IconType)
	assert.Equal(t, domain.ToastTypeTimed, cfg.Policy.ToastType)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "role store", key: "ROLE_STORE", value: "ldap"},
		{name: "notifier", key: "NOTIFIER", value: "email"},
		{name: "icon type", key: "SENSITIVE_NOTIFICATION_ICON_TYPE", value: "info"},
		{name: "same attributes", key: "SENSITIVE_SECRET_ATTRIBUTE", value: "vlj_sensitivefield"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("SENSITIVE_GATE_TEST_KEY", "")
	assert.Equal(t, "fallback", GetEnvOrDefault("SENSITIVE_GATE_TEST_KEY", "fallback"))

	t.Setenv("SENSITIVE_GATE_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnvOrDefault("SENSITIVE_GATE_TEST_KEY", "fallback"))
}

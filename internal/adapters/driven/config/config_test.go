package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CLIENT_ID", "client-id")
	t.Setenv("CLIENT_SECRET", "client-secret")
	t.Setenv("TENANT_ID", "tenant-id")
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("FRONTEND_BASE_URL", "https://app.example.com")
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner-api.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"User.Read", "Tasks.Read"}, cfg.Scopes)
	assert.Equal(t, 5001, cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.PlanTimeout)
	assert.Equal(t, 4, cfg.PlanConcurrency)
	assert.Equal(t, "https://graph.microsoft.com/v1.0", cfg.GraphBaseURL)
	assert.False(t, cfg.ExposeErrorDetail)
}

func TestLoad_FromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCOPES", "User.Read, Tasks.Read ,Group.Read.All")
	t.Setenv("PORT", "8080")
	t.Setenv("PLAN_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.ClientID)
	assert.Equal(t, []string{"User.Read", "Tasks.Read", "Group.Read.All"}, cfg.Scopes)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.PlanTimeout)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
}

func TestLoad_DerivedValues(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://login.microsoftonline.com/tenant-id", cfg.AuthorityURL())
	assert.Equal(t, "https://api.example.com/api/auth_callback", cfg.CallbackURL())
	assert.Equal(t, "https://app.example.com/auth-callback", cfg.FrontendCallbackURL())
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SecureCookies())
	assert.Equal(t, "0.0.0.0:5001", cfg.Addr())
}

func TestLoad_GeneratesStateKey(t *testing.T) {
	setRequiredEnv(t)

	first, err := Load("")
	require.NoError(t, err)
	second, err := Load("")
	require.NoError(t, err)

	assert.Len(t, first.StateSigningKey, 64)
	assert.NotEqual(t, first.StateSigningKey, second.StateSigningKey)
}

func TestLoad_KeepsConfiguredStateKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STATE_SIGNING_KEY", "configured-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "configured-key", cfg.StateSigningKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []string{"CLIENT_ID", "CLIENT_SECRET", "TENANT_ID", "API_BASE_URL", "FRONTEND_BASE_URL"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, "")

			_, err := Load("")

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingConfig)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port not a number", key: "PORT", value: "http"},
		{name: "port out of range", key: "PORT", value: "70000"},
		{name: "frontend without scheme", key: "FRONTEND_BASE_URL", value: "app.example.com"},
		{name: "zero concurrency", key: "PLAN_CONCURRENCY", value: "0"},
		{name: "bad duration", key: "PLAN_TIMEOUT", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")

			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeFile(t, `
client_id = "file-client"
client_secret = "file-secret"
tenant_id = "file-tenant"
api_base_url = "http://localhost:5001"
frontend_base_url = "http://localhost:4200"
scopes = ["User.Read"]
cors_allowed_origins = ["*"]
expose_error_detail = true

[server]
port = 9000

[graph]
plan_timeout = "5s"
plan_concurrency = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-client", cfg.ClientID)
	assert.Equal(t, []string{"User.Read"}, cfg.Scopes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.PlanTimeout)
	assert.Equal(t, 2, cfg.PlanConcurrency)
	assert.True(t, cfg.ExposeErrorDetail)
	assert.False(t, cfg.SecureCookies())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, `
client_id = "file-client"
client_secret = "file-secret"
tenant_id = "file-tenant"
api_base_url = "http://localhost:5001"
frontend_base_url = "http://localhost:4200"
`)
	t.Setenv("CLIENT_ID", "env-client")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.ClientID)
	assert.Equal(t, "file-secret", cfg.ClientSecret)
}

func TestLoad_FileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, err := Load(writeFile(t, "client_id = "))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeFile(t, "[graph]\nplan_timeout = \"later\"\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

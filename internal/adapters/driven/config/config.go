// Package config loads the service configuration from an optional TOML file
// and the environment. The loaded Config is immutable and passed explicitly
// to every component that needs it.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/planner-api/internal/logger"
)

// Config errors.
var (
	ErrMissingConfig = errors.New("missing required configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

const (
	authorityHost       = "https://login.microsoftonline.com"
	callbackPath        = "/api/auth_callback"
	frontendCallbackDir = "/auth-callback"
	defaultGraphBaseURL = "https://graph.microsoft.com/v1.0"
	stateKeyBytes       = 32
)

// Config is the top-level service configuration.
type Config struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	TenantID     string   `env:"TENANT_ID"`
	Scopes       []string `env:"SCOPES" envSeparator:","`

	// APIBaseURL is this service's public base URL; the OAuth callback is
	// served under it.
	APIBaseURL string `env:"API_BASE_URL"`
	// FrontendBaseURL is where the browser lands after the callback.
	FrontendBaseURL string `env:"FRONTEND_BASE_URL"`

	Host string `env:"HOST"`
	Port int    `env:"PORT"`

	StateSigningKey    string   `env:"STATE_SIGNING_KEY"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	PlanTimeout     time.Duration `env:"PLAN_TIMEOUT"`
	PlanConcurrency int           `env:"PLAN_CONCURRENCY"`
	GraphBaseURL    string        `env:"GRAPH_BASE_URL"`

	ExposeErrorDetail bool `env:"EXPOSE_ERROR_DETAIL"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"OTEL_ENABLED"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{
		Scopes:          []string{"User.Read", "Tasks.Read"},
		Host:            "0.0.0.0",
		Port:            5001,
		PlanTimeout:     15 * time.Second,
		PlanConcurrency: 4,
		GraphBaseURL:    defaultGraphBaseURL,
		OTelEnabled:     true,
	}
}

// Load builds the configuration from defaults, the TOML file at path (when
// non-empty) and the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: parse env: %v", ErrInvalidConfig, err)
	}

	if err := cfg.fillDerived(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) fillDerived() error {
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	c.FrontendBaseURL = strings.TrimRight(c.FrontendBaseURL, "/")
	c.GraphBaseURL = strings.TrimRight(c.GraphBaseURL, "/")
	c.Scopes = trimAll(c.Scopes)
	c.CORSAllowedOrigins = trimAll(c.CORSAllowedOrigins)

	if len(c.CORSAllowedOrigins) == 0 && c.FrontendBaseURL != "" {
		c.CORSAllowedOrigins = []string{c.FrontendBaseURL}
	}

	if c.StateSigningKey == "" {
		key := make([]byte, stateKeyBytes)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generating state signing key: %w", err)
		}
		c.StateSigningKey = hex.EncodeToString(key)
		logger.Warn("config: STATE_SIGNING_KEY not set, using an ephemeral key; logins in flight are lost on restart")
	}

	return nil
}

// Validate checks that every required value is present and well formed.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"CLIENT_ID", c.ClientID},
		{"CLIENT_SECRET", c.ClientSecret},
		{"TENANT_ID", c.TenantID},
		{"API_BASE_URL", c.APIBaseURL},
		{"FRONTEND_BASE_URL", c.FrontendBaseURL},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrMissingConfig, r.name)
		}
	}

	if len(c.Scopes) == 0 {
		return fmt.Errorf("%w: at least one scope is required", ErrMissingConfig)
	}

	for name, raw := range map[string]string{
		"API_BASE_URL":      c.APIBaseURL,
		"FRONTEND_BASE_URL": c.FrontendBaseURL,
		"GRAPH_BASE_URL":    c.GraphBaseURL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%w: %s %v", ErrInvalidConfig, name, err)
		}
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT must be between 1 and 65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.PlanConcurrency < 1 {
		return fmt.Errorf("%w: PLAN_CONCURRENCY must be at least 1, got %d", ErrInvalidConfig, c.PlanConcurrency)
	}
	if c.PlanTimeout < 0 {
		return fmt.Errorf("%w: PLAN_TIMEOUT must not be negative", ErrInvalidConfig)
	}

	return nil
}

// AuthorityURL returns the tenant's Entra ID authority.
func (c *Config) AuthorityURL() string {
	return authorityHost + "/" + c.TenantID
}

// CallbackURL returns the redirect URI registered with the identity provider.
func (c *Config) CallbackURL() string {
	return c.APIBaseURL + callbackPath
}

// FrontendCallbackURL returns the front-end page that receives the token.
func (c *Config) FrontendCallbackURL() string {
	return c.FrontendBaseURL + frontendCallbackDir
}

// SecureCookies reports whether cookies should carry the Secure attribute.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.APIBaseURL, "https://")
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host, got %q", raw)
	}
	return nil
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return values
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

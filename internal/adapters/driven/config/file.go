package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is the on-disk TOML layout. Unset keys leave defaults intact.
type fileConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	TenantID     string   `toml:"tenant_id"`
	Scopes       []string `toml:"scopes"`

	APIBaseURL      string `toml:"api_base_url"`
	FrontendBaseURL string `toml:"frontend_base_url"`

	Server struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	} `toml:"server"`

	StateSigningKey    string   `toml:"state_signing_key"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`

	Graph struct {
		BaseURL         string `toml:"base_url"`
		PlanTimeout     string `toml:"plan_timeout"`
		PlanConcurrency int    `toml:"plan_concurrency"`
	} `toml:"graph"`

	ExposeErrorDetail *bool `toml:"expose_error_detail"`

	OTel struct {
		Endpoint string `toml:"endpoint"`
		Enabled  *bool  `toml:"enabled"`
	} `toml:"otel"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	setString(&cfg.ClientID, fc.ClientID)
	setString(&cfg.ClientSecret, fc.ClientSecret)
	setString(&cfg.TenantID, fc.TenantID)
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.FrontendBaseURL, fc.FrontendBaseURL)
	setString(&cfg.Host, fc.Server.Host)
	setString(&cfg.StateSigningKey, fc.StateSigningKey)
	setString(&cfg.GraphBaseURL, fc.Graph.BaseURL)
	setString(&cfg.OTelEndpoint, fc.OTel.Endpoint)

	if len(fc.Scopes) > 0 {
		cfg.Scopes = fc.Scopes
	}
	if len(fc.CORSAllowedOrigins) > 0 {
		cfg.CORSAllowedOrigins = fc.CORSAllowedOrigins
	}
	if fc.Server.Port != 0 {
		cfg.Port = fc.Server.Port
	}
	if fc.Graph.PlanConcurrency != 0 {
		cfg.PlanConcurrency = fc.Graph.PlanConcurrency
	}
	if fc.Graph.PlanTimeout != "" {
		d, err := time.ParseDuration(fc.Graph.PlanTimeout)
		if err != nil {
			return fmt.Errorf("%w: graph.plan_timeout: %v", ErrInvalidConfig, err)
		}
		cfg.PlanTimeout = d
	}
	if fc.ExposeErrorDetail != nil {
		cfg.ExposeErrorDetail = *fc.ExposeErrorDetail
	}
	if fc.OTel.Enabled != nil {
		cfg.OTelEnabled = *fc.OTel.Enabled
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

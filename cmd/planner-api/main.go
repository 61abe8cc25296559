package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/planner-api/internal/adapters/driven/config"
	"github.com/custodia-labs/planner-api/internal/adapters/driving/api"
	"github.com/custodia-labs/planner-api/internal/adapters/driving/cli"
	"github.com/custodia-labs/planner-api/internal/connectors/microsoft"
	"github.com/custodia-labs/planner-api/internal/connectors/microsoft/planner"
	"github.com/custodia-labs/planner-api/internal/core/services"
	"github.com/custodia-labs/planner-api/internal/logger"
	"github.com/custodia-labs/planner-api/internal/platform/otel"
	"github.com/custodia-labs/planner-api/internal/state"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	cli.SetVersion(version)
	cli.SetAppBuilder(buildApp)

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// buildApp wires every component from the loaded configuration.
func buildApp(ctx context.Context, configPath string) (*cli.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	shutdownTracing, err := otel.Setup(ctx, "planner-api", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}

	identity := microsoft.NewOAuthHandler(microsoft.OAuthConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TenantID:     cfg.TenantID,
		RedirectURL:  cfg.CallbackURL(),
		Scopes:       cfg.Scopes,
	})
	logger.Debug("auth: authority %s, %s", cfg.AuthorityURL(), identity.SetupHint())

	states := state.NewService([]byte(cfg.StateSigningKey))
	auth := services.NewAuthService(identity, states, cfg.FrontendCallbackURL())

	// One limiter paces every outbound Graph call from this process.
	limiter := microsoft.NewRateLimiter(microsoft.ServicePlanner)
	tasks := services.NewTaskAggregator(
		planner.NewClientFactory(microsoft.NewHTTPClient(), limiter),
		planner.NewRawClient(cfg.GraphBaseURL, microsoft.NewHTTPClient(), limiter),
		services.TaskAggregatorConfig{
			PlanTimeout: cfg.PlanTimeout,
			Concurrency: cfg.PlanConcurrency,
		},
	)

	server := api.New(api.Config{
		Addr:              cfg.Addr(),
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		SecureCookies:     cfg.SecureCookies(),
		StateTTL:          states.Expiry(),
		ExposeErrorDetail: cfg.ExposeErrorDetail,
	}, api.Deps{Auth: auth, Tasks: tasks})

	return &cli.App{
		Server: server,
		Auth:   auth,
		Close:  shutdownTracing,
	}, nil
}

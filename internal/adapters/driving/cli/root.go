package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/planner-api/internal/core/ports/driving"
	"github.com/custodia-labs/planner-api/internal/logger"
)

var (
	// Version is set by goreleaser ldflags.
	version = "dev"

	// Verbose enables debug logging.
	verbose bool

	// configPath points at an optional TOML config file.
	configPath string

	// appBuilder constructs the application for commands that need it.
	appBuilder AppBuilder
)

// Runner is a server that can be started and stopped.
type Runner interface {
	Start() error
	Shutdown(ctx context.Context) error
	Addr() string
}

// App holds the wired application used by the commands.
type App struct {
	Server Runner
	Auth   driving.AuthService
	// Close releases resources such as the trace exporter. May be nil.
	Close func(context.Context) error
}

// AppBuilder builds an App from the config file path ("" for environment only).
type AppBuilder func(ctx context.Context, configPath string) (*App, error)

// SetAppBuilder injects the application constructor.
func SetAppBuilder(b AppBuilder) {
	appBuilder = b
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "planner-api",
	Short: "Microsoft Planner task API for the timeline front-end",
	Long: `planner-api signs users in with Microsoft Entra ID and serves their
Planner tasks, with category labels resolved, as one flat list.

Tokens are passed back to the browser and never stored.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")

	// Use PersistentPreRunE to set verbose mode before any command executes
	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return nil
	}
}

// buildApp runs the injected builder.
func buildApp(ctx context.Context) (*App, error) {
	if appBuilder == nil {
		return nil, errNoAppBuilder
	}
	return appBuilder(ctx, configPath)
}

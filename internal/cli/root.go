package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/abroadmap/abroadmap/config"
	"github.com/abroadmap/abroadmap/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	baseURL  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "abroadctl",
	Short: "Browse study abroad programs from the terminal",
	Long: `abroadctl talks to the abroadmap REST backend. It browses the program
catalog, signs students and alumni in, and manages favorites and reviews.

The backend address comes from API_BASE_URL (default http://localhost:8000/api)
or the --base-url flag. Session cookies live only as long as the process, so
use the interactive shell to work as a signed-in user.`,
	SilenceUsage: true,
}

type appKey struct{}

// NewRootCommand returns the root command. Exposed for tests.
func NewRootCommand() *cobra.Command {
	return rootCmd
}

// ExecuteContext runs the CLI
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentPreRunE = setupApp
}

// setupApp loads configuration, initializes logging and stores the App in the
// command context
func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(baseURL, "/")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	// CLI output goes to stdout, so logs stay quiet unless asked for
	level := cfg.Logging.Level
	if logLevel == "" {
		level = "warn"
	}
	if err := logger.Initialize(logger.Config{
		Level:       level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName + "-cli",
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
	return nil
}

func appFrom(cmd *cobra.Command) (*App, error) {
	app, ok := cmd.Context().Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/kukudrill/internal/config"
	"github.com/vytor/kukudrill/internal/logger"
)

// Opener builds the AppContext a command runs against.
type Opener func(cfg config.Config) (*AppContext, error)

func openFromConfig(cfg config.Config) (*AppContext, error) {
	return NewAppContext(cfg.DBPath, cfg.LeaderboardLimit)
}

// NewRootCmd assembles the kukuctl command tree. open is called once per
// command invocation.
func NewRootCmd(open Opener) *cobra.Command {
	cfg := config.Load()
	var asJSON bool

	root := &cobra.Command{
		Use:   "kukuctl",
		Short: "Maintenance and reporting for the multiplication drill",
		Long: `kukuctl works directly on the drill database.

Reconstruct legacy attempt history, print per-player reports, and list cohort
statistics and leaderboards.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.SetDefault(logger.New(
				logger.WithOutput(cmd.ErrOrStderr()),
				logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
			))
			return cfg.Validate()
		},
	}
	root.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "DEBUG, INFO, WARN or ERROR")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")

	env := &cmdEnv{cfg: &cfg, open: open, asJSON: &asJSON}
	root.AddCommand(
		newBackfillCmd(env),
		newReportCmd(env),
		newCohortCmd(env),
		newLeaderboardCmd(env),
		newUsersCmd(env),
	)
	return root
}

// Execute runs kukuctl against the configured database.
func Execute() {
	if err := NewRootCmd(openFromConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cmdEnv struct {
	cfg    *config.Config
	open   Opener
	asJSON *bool
}

// withApp opens the app, runs fn and closes the app again.
func (e *cmdEnv) withApp(fn func(app *AppContext) error) error {
	app, err := e.open(*e.cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

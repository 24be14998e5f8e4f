// Package cli implements the leadagent command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rpggio/leadagent/internal/app"
	"github.com/rpggio/leadagent/internal/config"
	"github.com/spf13/cobra"
)

type appKeyType string

const appKey appKeyType = "app"

// newApp is the application factory. Tests replace it to point the commands
// at a temporary database.
var newApp = func(cfg config.Config, console io.Writer) (*app.App, error) {
	return app.New(cfg, app.Options{Console: console})
}

// loadConfig is replaced in tests to avoid reading the process environment.
var loadConfig = config.Load

type rootFlags struct {
	dbPath   string
	envFile  string
	logLevel string
}

// rootState owns the app built for the running command. PersistentPostRun
// is skipped when a command fails, so callers also close it on exit.
type rootState struct {
	flags rootFlags
	app   *app.App
}

func (s *rootState) close() {
	if s.app != nil {
		s.app.Close()
		s.app = nil
	}
}

// newRootCmd builds the command tree.
func newRootCmd(version string) (*cobra.Command, *rootState) {
	state := &rootState{}
	flags := &state.flags

	cmd := &cobra.Command{
		Use:   "leadagent",
		Short: "Discover and research sales leads from seed websites",
		Long: `leadagent keeps a registry of seed websites, finds similar companies
through a similarity search service, and researches each discovered lead by
scraping its site, extracting facts with a language model and looking up
contacts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if flags.dbPath != "" {
				cfg.DB.Path = flags.dbPath
			}
			if flags.envFile != "" {
				cfg.EnvFile = flags.envFile
			}
			if flags.logLevel != "" {
				cfg.Log.Level = flags.logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			a, err := newApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			state.app = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},

		PersistentPostRun: func(*cobra.Command, []string) {
			state.close()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "path to the sqlite database (default from config)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "path to the credentials env file (default from config)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newAddCmd(),
		newRemoveCmd(),
		newStatusCmd(),
		newBulkAddCmd(),
		newDiscoverCmd(),
		newLeadsCmd(),
		newDeleteLeadCmd(),
		newErrorsCmd(),
		newResearchCmd(),
		newSetupCmd(),
		newShellCmd(),
		newServeCmd(version),
	)
	return cmd, state
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	cmd, state := newRootCmd(version)
	defer state.close()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func appFrom(cmd *cobra.Command) *app.App {
	if cmd.Context() == nil {
		return nil
	}
	a, _ := cmd.Context().Value(appKey).(*app.App)
	return a
}

func mustApp(cmd *cobra.Command) (*app.App, error) {
	a := appFrom(cmd)
	if a == nil {
		return nil, errors.New("application not initialized")
	}
	return a, nil
}

func runnerFor(cmd *cobra.Command) (*runner, error) {
	a, err := mustApp(cmd)
	if err != nil {
		return nil, err
	}
	return &runner{app: a, out: cmd.OutOrStdout()}, nil
}

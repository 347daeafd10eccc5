package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/budget"
	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/ledgerfile"
	"github.com/tally-dev/tally/internal/logging"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	configPath string
	file       string
	verbose    bool

	cfg *config.Config
	log *logrus.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal income and expense ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.FileName, "path to tally.yaml")
	flags.StringVar(&a.file, "file", "", "ledger file (overrides the configured path)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(a),
		newAddCommand(a),
		newRemoveCommand(a),
		newListCommand(a),
		newSummaryCommand(a),
		newBreakdownCommand(a),
		newCategoriesCommand(a),
		newImportCommand(a),
		newReportCommand(a),
	)

	return rootCmd
}

// configure loads .env, tally.yaml and environment overrides, then builds
// the logger.
func (a *app) configure(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(filepath.Join(filepath.Dir(a.configPath), ".env")); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	if a.file != "" {
		cfg.Ledger.File = a.file
	}
	if a.verbose {
		cfg.Log.Level = logrus.DebugLevel.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// service builds the budget service for the configured ledger and loads it.
func (a *app) service() (*budget.Service, error) {
	path := a.cfg.LedgerPath(a.configPath)
	codec := ledgerfile.NewCodec(a.cfg.Schema(), logging.For(a.log, logging.ComponentCodec))
	store := ledgerfile.NewStore(path, codec)

	var opts []budget.Option
	if a.cfg.Git.AutoCommit {
		opts = append(opts, budget.WithGitCommit(a.cfg.Git.AuthorName, a.cfg.Git.AuthorEmail))
	}
	svc := budget.NewService(store, a.log, opts...)
	if err := svc.Load(); err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return svc, nil
}

func (a *app) logger() logrus.FieldLogger {
	return logging.For(a.log, logging.ComponentCLI)
}

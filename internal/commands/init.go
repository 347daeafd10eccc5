package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledgerfile"
	"github.com/tally-dev/tally/internal/logging"
)

func newInitCommand(a *app) *cobra.Command {
	var schemaName string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create tally.yaml and an empty ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			schema, err := ledgerfile.ParseSchema(schemaName)
			if err != nil {
				return err
			}

			path, err := a.runInit(absDir, schema, useGit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s ledger at %s\n", schema, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&schemaName, "schema", ledgerfile.Categorized.String(), "ledger layout: categorized or basic")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the ledger on every save")

	return cmd
}

func (a *app) runInit(dir string, schema ledgerfile.Schema, useGit bool) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists", cfgPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	// Write tally.yaml.
	cfg := config.Default()
	cfg.Ledger.Schema = schema.String()
	cfg.Git.AutoCommit = useGit
	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	// Write the ledger header unless a ledger is already there.
	path := cfg.LedgerPath(cfgPath)
	store := ledgerfile.NewStore(path, ledgerfile.NewCodec(schema, logging.For(a.log, logging.ComponentCodec)))
	if !store.Exists() {
		if err := store.Save(nil); err != nil {
			return "", err
		}
	}

	if !useGit {
		return path, nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return "", fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(dir, "init: create ledger", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	a.logger().WithField(logging.FieldCommit, hash).Info("initialized git repository")
	return path, nil
}

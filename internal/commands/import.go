package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/entry"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/ledgerfile"
	"github.com/tally-dev/tally/internal/logging"
)

func newImportCommand(a *app) *cobra.Command {
	var format string
	var category string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append the transactions of a bank CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := entry.Rules{
				Catalog:     a.cfg.Catalog(),
				Categorized: a.cfg.Schema() == ledgerfile.Categorized,
			}
			resolved, err := rules.ResolveCategory(category)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			txns, err := importer.DefaultRegistry().ParseFile(args[0], format, resolved)
			if err != nil {
				return err
			}
			n := svc.Import(txns)
			logging.For(a.log, logging.ComponentImporter).WithFields(logrus.Fields{
				logging.FieldPath:  args[0],
				logging.FieldCount: n,
			}).Debug("parsed bank export")

			if err := svc.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions from %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "export format")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category for every imported transaction")

	return cmd
}

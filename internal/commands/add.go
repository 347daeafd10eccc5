package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/categories"
	"github.com/tally-dev/tally/internal/entry"
	"github.com/tally-dev/tally/internal/ledgerfile"
	"github.com/tally-dev/tally/internal/model"
)

func newAddCommand(a *app) *cobra.Command {
	var p entry.Params

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record a transaction and save the ledger.

Without --type the sign of --amount decides: positive is income, negative
is expense. With --type the amount is taken as a magnitude.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			rules := entry.Rules{
				Catalog:     a.cfg.Catalog(),
				Categorized: a.cfg.Schema() == ledgerfile.Categorized,
			}
			t, err := rules.Parse(p)
			if err != nil {
				return err
			}

			svc.Add(t)
			if err := svc.Save(); err != nil {
				return err
			}
			writeTransaction(cmd.OutOrStdout(), "Added", t)
			return nil
		},
	}

	cmd.Flags().StringVar(&p.Date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&p.Description, "description", "d", "", "description")
	cmd.Flags().StringVarP(&p.Amount, "amount", "a", "", "amount (required)")
	cmd.Flags().StringVarP(&p.Kind, "type", "t", "", "income or expense")
	cmd.Flags().StringVarP(&p.Category, "category", "c", "", "category (default depends on type)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func money(t *model.Transaction) string {
	return t.Amount.StringFixed(2)
}

func writeTransaction(w io.Writer, verb string, t *model.Transaction) {
	fmt.Fprintf(w, "%s: %s  %s  %s  %s\n", verb, t.Date.Format("2006-01-02"), t.Description, money(t), categories.Label(t.Category))
}

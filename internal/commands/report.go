package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/categories"
	"github.com/tally-dev/tally/internal/ledgerfile"
	"github.com/tally-dev/tally/internal/model"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			if svc.Ledger().Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions.")
				return nil
			}

			categorized := a.cfg.Schema() == ledgerfile.Categorized
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			if categorized {
				fmt.Fprintln(tw, "#\tDATE\tDESCRIPTION\tCATEGORY\tAMOUNT\t")
			} else {
				fmt.Fprintln(tw, "#\tDATE\tDESCRIPTION\tAMOUNT\t")
			}
			for i, t := range svc.Ledger().List() {
				if categorized {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", i+1, t.Date.Format("2006-01-02"), t.Description, categories.Label(t.Category), money(t))
				} else {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t\n", i+1, t.Date.Format("2006-01-02"), t.Description, money(t))
				}
			}
			return tw.Flush()
		},
	}
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show total income, total expense and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			s := svc.Ledger().Summary()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tw, "Transactions:\t%d\t\n", s.Count)
			fmt.Fprintf(tw, "Total income:\t%s\t\n", s.Income.StringFixed(2))
			fmt.Fprintf(tw, "Total expense:\t%s\t\n", s.Expense.StringFixed(2))
			fmt.Fprintf(tw, "Balance:\t%s\t\n", s.Balance.StringFixed(2))
			return tw.Flush()
		},
	}
}

func newBreakdownCommand(a *app) *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "breakdown",
		Short: "Show per-category totals and shares",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(kindName)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			shares := svc.Ledger().Breakdown(kind)
			if len(shares) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s transactions.\n", kind)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "CATEGORY\tTOTAL\tSHARE\t")
			for _, s := range shares {
				fmt.Fprintf(tw, "%s\t%s\t%s%%\t\n", categories.Label(s.Category), s.Total.StringFixed(2), s.Share.StringFixed(2))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&kindName, "type", "t", string(model.KindExpense), "income or expense")

	return cmd
}

func newCategoriesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the configured categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if a.cfg.Schema() != ledgerfile.Categorized {
				fmt.Fprintln(out, "The basic ledger layout does not store categories.")
				return nil
			}

			catalog := a.cfg.Catalog()
			for _, kind := range []model.Kind{model.KindExpense, model.KindIncome} {
				fmt.Fprintf(out, "%s:\n", kind)
				for i, name := range catalog.ByKind(kind) {
					suffix := ""
					if i == 0 {
						suffix = " (default)"
					}
					fmt.Fprintf(out, "  %s%s\n", name, suffix)
				}
			}
			if catalog.Strict {
				fmt.Fprintln(out, "Only these categories are accepted.")
			}
			return nil
		},
	}
}

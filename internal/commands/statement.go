package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/logging"
	"github.com/tally-dev/tally/internal/report"
)

func newReportCommand(a *app) *cobra.Command {
	var out string
	var title string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF statement with totals, category charts and transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			svc, err := a.service()
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating report: %w", err)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("closing report: %w", cerr)
				}
			}()

			st := report.NewStatement(svc.Ledger(), title, time.Now())
			if err := st.WritePDF(f); err != nil {
				return err
			}
			a.logger().WithField(logging.FieldPath, out).Debug("wrote report")
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "tally-report.pdf", "output file")
	cmd.Flags().StringVar(&title, "title", "Tally statement", "report title")

	return cmd
}

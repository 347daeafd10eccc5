package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <position>",
		Short: "Remove the transaction at a position shown by list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			t, err := svc.RemoveAt(pos)
			if err != nil {
				return err
			}
			if err := svc.Save(); err != nil {
				return err
			}
			writeTransaction(cmd.OutOrStdout(), "Removed", t)
			return nil
		},
	}
}

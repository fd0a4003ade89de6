package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored person",
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		svc, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Stop()

		n, err := svc.Reset(cmd.Context(), yes)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d persons\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolP("yes", "y", false, "confirm deletion")
}

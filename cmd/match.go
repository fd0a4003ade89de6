package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	service "github.com/okian/talentradar/internal/app"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <requirement>",
	Short: "Rank stored persons against a job requirement",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		svc, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Stop()

		out, err := svc.Match(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		return printRanking(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().IntP("limit", "l", 10, "number of persons to show")
}

func printRanking(w io.Writer, out service.MatchOutcome) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tNAME\tAFFILIATION\tSOURCES")
	for i, r := range out.Results {
		fmt.Fprintf(tw, "%d\t%.4f\t%s\t%s\t%s\n", i+1, r.Score, r.Person.FullName,
			r.Person.CurrentAffiliation, strings.Join(r.Person.DataSources, ","))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "scored %d persons\n", out.Scored)
	return err
}

package main

import (
	"encoding/json"
	"fmt"

	service "github.com/okian/talentradar/internal/app"
	"github.com/okian/talentradar/internal/domain/model"
	"github.com/spf13/cobra"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect candidates from the given sources and persist them",
	Long: `Collect searches each selected source for every keyword, merges the
results into stored persons and prints the run report as JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sources, _ := cmd.Flags().GetStringSlice("source")
		keywords, _ := cmd.Flags().GetStringSlice("keyword")
		maxResults, _ := cmd.Flags().GetInt("max")

		req, err := collectRequest(sources, keywords, maxResults)
		if err != nil {
			return err
		}

		svc, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Stop()

		job, report, err := svc.Collect(cmd.Context(), req)
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(struct {
			Job    any `json:"job"`
			Report any `json:"report"`
		}{job, report}, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringSliceP("source", "s", nil, "sources to query (github, qiita, openalex, kaken); default all")
	collectCmd.Flags().StringSliceP("keyword", "k", nil, "search keyword, repeatable")
	collectCmd.Flags().IntP("max", "m", 0, "maximum results per source and keyword (default from config)")
	_ = collectCmd.MarkFlagRequired("keyword")
}

func collectRequest(sources, keywords []string, maxResults int) (service.CollectRequest, error) {
	req := service.CollectRequest{Keywords: keywords, MaxResults: maxResults}
	if len(sources) == 0 {
		return req, nil
	}
	req.Enabled = make(map[model.Source]bool, len(sources))
	for _, s := range sources {
		src, err := model.ParseSource(s)
		if err != nil {
			return req, err
		}
		req.Enabled[src] = true
	}
	return req, nil
}

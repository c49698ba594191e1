package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var cacheKey string
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded artwork resolutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.History(cmd.Context(), cacheKey, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if len(resp.Entries) == 0 {
				fmt.Fprintln(out, "No resolutions recorded")
				return nil
			}
			rows := make([][]string, 0, len(resp.Entries))
			for _, entry := range resp.Entries {
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					entry.CacheKey,
					entry.ItemName,
					entry.Language,
					entry.Source,
					fmt.Sprintf("%d", entry.ImageCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Key", "Name", "Language", "Source", "Images"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheKey, "key", "", "Narrow to one item's cache key")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to fetch (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit history as JSON")
	return cmd
}

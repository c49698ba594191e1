package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"posterlang/internal/api"
)

func newImagesCommand(ctx *commandContext) *cobra.Command {
	var req api.ImageRequest
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Request a ranked artwork selection for an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			selection, err := client.Images(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, selection)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Language: %s (source: %s, strategy: %s)\n",
				selection.Language, selection.Source, selection.Strategy)
			if len(selection.Images) == 0 {
				fmt.Fprintln(out, "No artwork selected")
				return nil
			}

			rows := make([][]string, 0, len(selection.Images))
			for _, img := range selection.Images {
				lang := img.Language
				if lang == "" {
					lang = "(untagged)"
				}
				rows = append(rows, []string{
					string(img.Kind),
					lang,
					fmt.Sprintf("%.1f", img.VoteAverage),
					fmt.Sprintf("%d", img.VoteCount),
					img.URL,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Kind", "Language", "Rating", "Votes", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Kind, "kind", "movie", "Item kind: movie, tv, season, or collection")
	cmd.Flags().StringVar(&req.Name, "name", "", "Item display name")
	cmd.Flags().StringVar(&req.OriginalTitle, "original-title", "", "Item original title")
	cmd.Flags().StringVar(&req.TMDBID, "tmdb", "", "TMDB id")
	cmd.Flags().StringVar(&req.IMDBID, "imdb", "", "IMDB id")
	cmd.Flags().StringVar(&req.TVDBID, "tvdb", "", "TVDB id")
	cmd.Flags().IntVar(&req.SeasonNumber, "season", 0, "Season number (season kind only)")
	cmd.Flags().StringVar(&req.SeriesTMDBID, "series-tmdb", "", "Parent series TMDB id (season kind only)")
	cmd.Flags().StringVar(&req.SeriesIMDBID, "series-imdb", "", "Parent series IMDB id (season kind only)")
	cmd.Flags().StringVar(&req.SeriesTVDBID, "series-tvdb", "", "Parent series TVDB id (season kind only)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit selection as JSON")
	return cmd
}

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"posterlang/internal/api"
	"posterlang/internal/langcache"
	"posterlang/internal/logging"
	"posterlang/internal/resolver"
	"posterlang/internal/tmdb"
)

// newResolveCommand resolves an item's original language directly against
// TMDB, without a running daemon. It shares the daemon's persistent cache
// so resolved facts benefit later daemon lookups.
func newResolveCommand(ctx *commandContext) *cobra.Command {
	var req api.ImageRequest
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an item's original language",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			item, err := req.Item()
			if err != nil {
				return err
			}

			client, err := tmdb.New(
				cfg.TMDB.APIKey,
				cfg.TMDB.BaseURL,
				cfg.TMDB.Language,
				tmdb.WithMaxRetries(cfg.TMDB.MaxRetries),
				tmdb.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TMDB.RequestTimeout) * time.Second}),
			)
			if err != nil {
				return fmt.Errorf("build tmdb client: %w", err)
			}

			var cache *langcache.Cache
			if cfg.LanguageCache.Enabled {
				cache = langcache.NewCache(cfg.LanguageCache.Path, logging.NewNop())
			}
			res, err := resolver.New(client, cache, nil, cfg.Selection.FallbackLanguages, nil)
			if err != nil {
				return err
			}

			resolution, err := res.Resolve(cmd.Context(), item, nil)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, resolution)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (source: %s)\n",
				item.CacheKey(), resolution.Language, resolution.Source)
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
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit resolution as JSON")
	return cmd
}

package warm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"posterlang/internal/config"
	"posterlang/internal/logging"
	"posterlang/internal/media"
	"posterlang/internal/resolver"
	"posterlang/internal/services/jellyfin"
)

const pageSize = 200

// Library lists media server items for the warming walk.
type Library interface {
	ListItems(ctx context.Context, startIndex, limit int) (*jellyfin.Page, error)
}

// Stats summarizes one warming run.
type Stats struct {
	Scanned  int `json:"scanned"`
	Resolved int `json:"resolved"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Task performs the throttled library walk.
type Task struct {
	library  Library
	resolver *resolver.Resolver
	logger   *slog.Logger
	delay    time.Duration
	maxItems int
}

// New creates a warming task from the warm config section.
func New(library Library, res *resolver.Resolver, cfg config.Warm, logger *slog.Logger) (*Task, error) {
	if library == nil {
		return nil, errors.New("library client required")
	}
	if res == nil {
		return nil, errors.New("resolver required")
	}
	return &Task{
		library:  library,
		resolver: res,
		logger:   logging.NewComponentLogger(logger, "warm"),
		delay:    time.Duration(cfg.DelayMillis) * time.Millisecond,
		maxItems: cfg.MaxItems,
	}, nil
}

// Run walks the library until it is exhausted, the item cap is reached,
// or the context is canceled. Partial stats are returned alongside any
// error so callers can report how far the run got.
func (t *Task) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	// Seasons reference their series by the server's internal id; the
	// series' external ids are remembered as the walk encounters them.
	seriesIDs := make(map[string]media.IDs)

	startIndex := 0
	for {
		page, err := t.library.ListItems(ctx, startIndex, pageSize)
		if err != nil {
			return stats, err
		}
		if len(page.Items) == 0 {
			break
		}

		for _, entry := range page.Items {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			if t.maxItems > 0 && stats.Scanned >= t.maxItems {
				t.logger.Info("item cap reached", logging.Int("max_items", t.maxItems))
				t.logFinished(stats)
				return stats, nil
			}
			stats.Scanned++

			item, ok := entry.MediaItem()
			if !ok {
				stats.Skipped++
				continue
			}
			if item.Kind == media.KindTV {
				seriesIDs[entry.ID] = item.IDs
			}
			if item.Kind == media.KindSeason {
				ids, known := seriesIDs[entry.SeriesID]
				if !known || ids.Empty() {
					stats.Skipped++
					continue
				}
				item.SeriesIDs = ids
			}

			if stats.Resolved+stats.Failed > 0 && t.delay > 0 {
				if err := sleepCtx(ctx, t.delay); err != nil {
					return stats, err
				}
			}

			res, err := t.resolver.Resolve(ctx, item, nil)
			if err != nil {
				stats.Failed++
				t.logger.Debug("language resolution failed during warm",
					logging.String(logging.FieldCacheKey, item.CacheKey()),
					logging.Error(err))
				continue
			}
			stats.Resolved++
			t.logger.Debug("language warmed",
				logging.String(logging.FieldCacheKey, item.CacheKey()),
				logging.String(logging.FieldLanguage, res.Language),
				logging.String("source", string(res.Source)))
		}

		startIndex += len(page.Items)
		if startIndex >= page.Total {
			break
		}
	}

	t.logFinished(stats)
	return stats, nil
}

func (t *Task) logFinished(stats Stats) {
	t.logger.Info("library warm finished",
		logging.Int("scanned", stats.Scanned),
		logging.Int("resolved", stats.Resolved),
		logging.Int("skipped", stats.Skipped),
		logging.Int("failed", stats.Failed))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

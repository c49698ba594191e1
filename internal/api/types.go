package api

import (
	"fmt"
	"strings"

	"posterlang/internal/history"
	"posterlang/internal/langcache"
	"posterlang/internal/media"
	"posterlang/internal/provider"
	"posterlang/internal/warm"
)

// ImageRequest identifies a library item whose artwork should be selected.
type ImageRequest struct {
	Kind          string `json:"kind"`
	Name          string `json:"name,omitempty"`
	OriginalTitle string `json:"original_title,omitempty"`
	TMDBID        string `json:"tmdb_id,omitempty"`
	IMDBID        string `json:"imdb_id,omitempty"`
	TVDBID        string `json:"tvdb_id,omitempty"`

	SeasonNumber int    `json:"season_number,omitempty"`
	SeriesTMDBID string `json:"series_tmdb_id,omitempty"`
	SeriesIMDBID string `json:"series_imdb_id,omitempty"`
	SeriesTVDBID string `json:"series_tvdb_id,omitempty"`
}

// Item converts the request into the pipeline's item shape.
func (r ImageRequest) Item() (media.Item, error) {
	kind, ok := media.ParseKind(r.Kind)
	if !ok {
		return media.Item{}, fmt.Errorf("unknown item kind %q", r.Kind)
	}
	item := media.Item{
		Kind:          kind,
		Name:          strings.TrimSpace(r.Name),
		OriginalTitle: strings.TrimSpace(r.OriginalTitle),
		IDs: media.IDs{
			TMDB: strings.TrimSpace(r.TMDBID),
			IMDB: strings.TrimSpace(r.IMDBID),
			TVDB: strings.TrimSpace(r.TVDBID),
		},
	}
	if kind == media.KindSeason {
		item.SeasonNumber = r.SeasonNumber
		item.SeriesIDs = media.IDs{
			TMDB: strings.TrimSpace(r.SeriesTMDBID),
			IMDB: strings.TrimSpace(r.SeriesIMDBID),
			TVDB: strings.TrimSpace(r.SeriesTVDBID),
		}
		if item.SeriesIDs.Empty() {
			return media.Item{}, fmt.Errorf("season requests need series ids")
		}
	} else if item.IDs.Empty() {
		return media.Item{}, fmt.Errorf("at least one external id required")
	}
	return item, nil
}

// ObserveRequest publishes a language fact seen in an earlier metadata
// response, keyed by the same external ids a later image request carries.
type ObserveRequest struct {
	TMDBID   string `json:"tmdb_id,omitempty"`
	IMDBID   string `json:"imdb_id,omitempty"`
	TVDBID   string `json:"tvdb_id,omitempty"`
	Language string `json:"language"`
}

// IDs returns the external ids of the observation.
func (r ObserveRequest) IDs() media.IDs {
	return media.IDs{
		TMDB: strings.TrimSpace(r.TMDBID),
		IMDB: strings.TrimSpace(r.IMDBID),
		TVDB: strings.TrimSpace(r.TVDBID),
	}
}

// ObserveResponse reports whether the fact was registered.
type ObserveResponse struct {
	Accepted bool `json:"accepted"`
}

// StatusResponse is the daemon status payload.
type StatusResponse struct {
	Running        bool        `json:"running"`
	PID            int         `json:"pid"`
	Enabled        bool        `json:"enabled"`
	Strategy       string      `json:"strategy"`
	CacheEntries   int         `json:"cache_entries"`
	HistoryEntries int64       `json:"history_entries"`
	PendingFacts   int         `json:"pending_facts"`
	UptimeSeconds  int64       `json:"uptime_seconds"`
	LockFilePath   string      `json:"lock_file_path"`
	WarmRunning    bool        `json:"warm_running"`
	LastWarm       *warm.Stats `json:"last_warm,omitempty"`
}

// EnabledResponse reports the provider toggle state after a change.
type EnabledResponse struct {
	Enabled bool `json:"enabled"`
}

// CacheListResponse carries the persisted language map.
type CacheListResponse struct {
	Entries []langcache.Entry `json:"entries"`
}

// CacheClearResponse reports how many entries a clear removed.
type CacheClearResponse struct {
	Removed int `json:"removed"`
}

// HistoryResponse carries recorded resolutions, newest first.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
}

// WarmResponse acknowledges a warming run request.
type WarmResponse struct {
	Started bool `json:"started"`
}

// Selection aliases the provider's selection payload for the wire.
type Selection = provider.Selection

// ErrorResponse is the error payload for non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

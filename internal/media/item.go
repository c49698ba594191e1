package media

import (
	"fmt"
	"strings"
)

// Kind identifies the item categories the artwork pipeline handles.
type Kind string

const (
	KindMovie      Kind = "movie"
	KindTV         Kind = "tv"
	KindSeason     Kind = "season"
	KindCollection Kind = "collection"
)

// ParseKind normalizes a kind string. Unrecognized values return ok=false.
func ParseKind(value string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindMovie:
		return KindMovie, true
	case KindTV, "series", "show":
		return KindTV, true
	case KindSeason:
		return KindSeason, true
	case KindCollection, "boxset":
		return KindCollection, true
	default:
		return "", false
	}
}

// IDs carries the external catalog identifiers attached to a title.
// Any subset may be present; an item with no ids is outside the pipeline.
type IDs struct {
	TMDB string `json:"tmdb_id,omitempty"`
	IMDB string `json:"imdb_id,omitempty"`
	TVDB string `json:"tvdb_id,omitempty"`
}

// Empty reports whether no external id is present.
func (ids IDs) Empty() bool {
	return strings.TrimSpace(ids.TMDB) == "" &&
		strings.TrimSpace(ids.IMDB) == "" &&
		strings.TrimSpace(ids.TVDB) == ""
}

// Primary returns the preferred id for cache keys and TMDB lookups:
// TMDB first, then IMDB, then TVDB.
func (ids IDs) Primary() string {
	if id := strings.TrimSpace(ids.TMDB); id != "" {
		return id
	}
	if id := strings.TrimSpace(ids.IMDB); id != "" {
		return id
	}
	return strings.TrimSpace(ids.TVDB)
}

// Item is the host-side view of a title whose images are being fetched.
type Item struct {
	Kind          Kind
	Name          string
	OriginalTitle string
	IDs           IDs

	// Seasons carry their own ids for the images lookup but resolve
	// language details through the parent series.
	SeasonNumber int
	SeriesIDs    IDs
}

// DetailsKind returns the kind used for the metadata details lookup.
// A season's language facts are the series' facts.
func (i Item) DetailsKind() Kind {
	if i.Kind == KindSeason {
		return KindTV
	}
	return i.Kind
}

// DetailsIDs returns the ids used for the metadata details lookup.
func (i Item) DetailsIDs() IDs {
	if i.Kind == KindSeason {
		return i.SeriesIDs
	}
	return i.IDs
}

// CacheKey builds the persisted language-cache key for an arbitrary
// kind/id pair, e.g. "movie_550" or "tv_1396".
func CacheKey(kind Kind, externalID string) string {
	return fmt.Sprintf("%s_%s", kind, strings.TrimSpace(externalID))
}

// SeasonCacheKey builds the composite season key, e.g. "tv_1396_S1".
func SeasonCacheKey(seriesID string, seasonNumber int) string {
	return fmt.Sprintf("tv_%s_S%d", strings.TrimSpace(seriesID), seasonNumber)
}

// CacheKey returns the language-cache key for this item.
func (i Item) CacheKey() string {
	if i.Kind == KindSeason {
		return SeasonCacheKey(i.SeriesIDs.Primary(), i.SeasonNumber)
	}
	return CacheKey(i.Kind, i.IDs.Primary())
}

package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"posterlang/internal/correlator"
	"posterlang/internal/langcache"
	"posterlang/internal/language"
	"posterlang/internal/logging"
	"posterlang/internal/media"
	"posterlang/internal/tmdb"
)

// Source names the step of the fallback chain that produced a language.
type Source string

const (
	SourceObserved   Source = "observed"
	SourceCache      Source = "cache"
	SourceDetails    Source = "details"
	SourceExternalID Source = "external_id"
	SourceTitle      Source = "title_script"
	SourceFallback   Source = "fallback"
)

// Resolution is the outcome of a language lookup.
type Resolution struct {
	Language string `json:"language"`
	Source   Source `json:"source"`
}

// ErrUnresolved reports that every step of the chain came up empty.
var ErrUnresolved = errors.New("original language could not be resolved")

// Resolver walks the fallback chain. All dependencies are optional except
// the TMDB client; a nil cache or correlator just skips those steps.
type Resolver struct {
	client     tmdb.Metadata
	cache      *langcache.Cache
	correlator *correlator.Correlator
	fallbacks  []string
	logger     *slog.Logger
}

// New creates a resolver.
func New(client tmdb.Metadata, cache *langcache.Cache, corr *correlator.Correlator, fallbacks []string, logger *slog.Logger) (*Resolver, error) {
	if client == nil {
		return nil, errors.New("tmdb client required")
	}
	return &Resolver{
		client:     client,
		cache:      cache,
		correlator: corr,
		fallbacks:  language.NormalizeList(fallbacks),
		logger:     logging.NewComponentLogger(logger, "resolver"),
	}, nil
}

// Resolve determines the original language for an item. The ticket, when
// non-nil, is consumed exactly once regardless of outcome. Successful
// lookups from metadata steps are written back to the cache.
func (r *Resolver) Resolve(ctx context.Context, item media.Item, ticket *correlator.Ticket) (Resolution, error) {
	key := item.CacheKey()

	// An observed language from an earlier details call wins outright,
	// and refreshes the cache with the freshest fact.
	if r.correlator != nil {
		if lang, ok := r.correlator.Consume(ticket); ok {
			r.writeBack(key, lang)
			return Resolution{Language: lang, Source: SourceObserved}, nil
		}
	}

	if r.cache != nil {
		if lang, ok := r.cache.Lookup(key); ok {
			return Resolution{Language: lang, Source: SourceCache}, nil
		}
	}

	if lang, err := r.fromDetails(ctx, item); err == nil && lang != "" {
		r.writeBack(key, lang)
		return Resolution{Language: lang, Source: SourceDetails}, nil
	} else if err != nil {
		r.logger.Debug("details lookup failed",
			logging.String(logging.FieldCacheKey, key),
			logging.Error(err))
	}

	if lang, err := r.fromExternalIDs(ctx, item); err == nil && lang != "" {
		r.writeBack(key, lang)
		return Resolution{Language: lang, Source: SourceExternalID}, nil
	} else if err != nil {
		r.logger.Debug("external id lookup failed",
			logging.String(logging.FieldCacheKey, key),
			logging.Error(err))
	}

	if lang := language.DetectFromTitle(item.OriginalTitle); lang != "" {
		r.writeBack(key, lang)
		return Resolution{Language: lang, Source: SourceTitle}, nil
	}

	if len(r.fallbacks) > 0 {
		return Resolution{Language: r.fallbacks[0], Source: SourceFallback}, nil
	}

	return Resolution{}, fmt.Errorf("%w: %s", ErrUnresolved, key)
}

// fromDetails fetches TMDB details and derives a language with the
// precedence original_language, then origin_country, then
// production_countries.
func (r *Resolver) fromDetails(ctx context.Context, item media.Item) (string, error) {
	id, ok := tmdbID(item.DetailsIDs())
	if !ok {
		return "", nil
	}

	details, err := r.fetchDetails(ctx, item.DetailsKind(), id)
	if err != nil {
		return "", err
	}
	if details == nil {
		return "", nil
	}
	return languageFromDetails(details), nil
}

func (r *Resolver) fetchDetails(ctx context.Context, kind media.Kind, id int64) (*tmdb.Details, error) {
	switch kind {
	case media.KindMovie:
		return r.client.GetMovieDetails(ctx, id)
	case media.KindTV:
		return r.client.GetTVDetails(ctx, id)
	case media.KindCollection:
		return r.collectionDetails(ctx, id)
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}
}

// collectionDetails synthesizes a details payload for a collection:
// TMDB collections carry no original_language, so the majority language
// across the member movies stands in, first part winning ties.
func (r *Resolver) collectionDetails(ctx context.Context, id int64) (*tmdb.Details, error) {
	collection, err := r.client.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(collection.Parts) == 0 {
		return nil, nil
	}

	counts := make(map[string]int, len(collection.Parts))
	order := make([]string, 0, len(collection.Parts))
	for _, part := range collection.Parts {
		lang := strings.TrimSpace(part.OriginalLanguage)
		if lang == "" {
			continue
		}
		if _, seen := counts[lang]; !seen {
			order = append(order, lang)
		}
		counts[lang]++
	}

	best := ""
	for _, lang := range order {
		if best == "" || counts[lang] > counts[best] {
			best = lang
		}
	}
	if best == "" {
		return nil, nil
	}
	return &tmdb.Details{ID: id, Name: collection.Name, OriginalLanguage: best}, nil
}

// fromExternalIDs resolves through /find when no TMDB id is present.
func (r *Resolver) fromExternalIDs(ctx context.Context, item media.Item) (string, error) {
	ids := item.DetailsIDs()
	if _, hasTMDB := tmdbID(ids); hasTMDB {
		return "", nil
	}

	lookups := []struct {
		id     string
		source string
	}{
		{strings.TrimSpace(ids.IMDB), tmdb.SourceIMDB},
		{strings.TrimSpace(ids.TVDB), tmdb.SourceTVDB},
	}

	for _, lookup := range lookups {
		if lookup.id == "" {
			continue
		}
		result, err := r.client.FindByExternalID(ctx, lookup.id, lookup.source)
		if err != nil {
			return "", err
		}
		if details := firstFindResult(result, item.DetailsKind()); details != nil {
			if lang := languageFromDetails(details); lang != "" {
				return lang, nil
			}
		}
	}
	return "", nil
}

func firstFindResult(result *tmdb.FindResult, kind media.Kind) *tmdb.Details {
	if result == nil {
		return nil
	}
	switch kind {
	case media.KindTV:
		if len(result.TVResults) > 0 {
			return &result.TVResults[0]
		}
	default:
		if len(result.MovieResults) > 0 {
			return &result.MovieResults[0]
		}
		if len(result.TVResults) > 0 {
			return &result.TVResults[0]
		}
	}
	return nil
}

func languageFromDetails(details *tmdb.Details) string {
	if lang := strings.TrimSpace(details.OriginalLanguage); lang != "" {
		return lang
	}
	if len(details.OriginCountry) > 0 {
		if lang, ok := language.ForCountry(details.OriginCountry[0]); ok {
			return lang
		}
	}
	if len(details.ProductionCountries) > 0 {
		if lang, ok := language.ForCountry(details.ProductionCountries[0].ISO3166); ok {
			return lang
		}
	}
	return ""
}

func (r *Resolver) writeBack(key, lang string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Store(key, lang); err != nil {
		logging.WarnWithContext(r.logger, "failed to persist resolved language", "langcache_store_failed",
			logging.String(logging.FieldCacheKey, key),
			logging.String(logging.FieldLanguage, lang),
			logging.Error(err),
			logging.String(logging.FieldImpact, "language will be re-resolved next time"))
	}
}

func tmdbID(ids media.IDs) (int64, bool) {
	raw := strings.TrimSpace(ids.TMDB)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

package provider

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"posterlang/internal/artwork"
	"posterlang/internal/correlator"
	"posterlang/internal/history"
	"posterlang/internal/language"
	"posterlang/internal/logging"
	"posterlang/internal/media"
	"posterlang/internal/resolver"
	"posterlang/internal/tmdb"
)

const imageBaseURL = "https://image.tmdb.org/t/p/original"

// Image is one selected artwork reference, best candidates first.
type Image struct {
	Kind            artwork.Kind `json:"kind"`
	Path            string       `json:"path"`
	URL             string       `json:"url"`
	Language        string       `json:"language"`
	DisplayLanguage string       `json:"display_language"`
	VoteAverage     float64      `json:"vote_average"`
	VoteCount       int64        `json:"vote_count"`
}

// Selection is the full outcome of a GetImages call.
type Selection struct {
	RequestID string           `json:"request_id"`
	Language  string           `json:"language"`
	Source    resolver.Source  `json:"source"`
	Strategy  artwork.Strategy `json:"strategy"`
	Images    []Image          `json:"images"`
}

// Options configures a Service.
type Options struct {
	Strategy         artwork.Strategy
	DisplayLanguage  string
	IncludeBackdrops bool
	IncludeLogos     bool
}

// Service coordinates resolution, fetching, and ranking.
type Service struct {
	client     tmdb.Metadata
	resolver   *resolver.Resolver
	correlator *correlator.Correlator
	history    *history.Store
	logger     *slog.Logger
	opts       Options

	enabled atomic.Bool

	mu      sync.Mutex
	tickets map[string]*correlator.Ticket
}

// New creates the selection service. The history store may be nil.
func New(client tmdb.Metadata, res *resolver.Resolver, corr *correlator.Correlator, hist *history.Store, logger *slog.Logger, opts Options) *Service {
	s := &Service{
		client:     client,
		resolver:   res,
		correlator: corr,
		history:    hist,
		logger:     logging.NewComponentLogger(logger, "provider"),
		opts:       opts,
		tickets:    make(map[string]*correlator.Ticket),
	}
	s.enabled.Store(true)
	return s
}

// Enabled reports whether the provider currently serves selections.
func (s *Service) Enabled() bool {
	return s.enabled.Load()
}

// SetEnabled toggles the provider at runtime. Disabled providers return
// empty selections so the host falls back to its default artwork.
func (s *Service) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

// Supports reports whether the item carries enough identity to select
// artwork for.
func (s *Service) Supports(item media.Item) bool {
	if !s.Enabled() {
		return false
	}
	if item.Kind == media.KindSeason {
		return !item.SeriesIDs.Empty()
	}
	return !item.IDs.Empty()
}

// Observe records a language fact published by an earlier metadata call.
// It registers a pending lookup for the item's ids so the next GetImages
// for the same title consumes the fact exactly once.
func (s *Service) Observe(ids media.IDs, lang string) bool {
	if s.correlator == nil || ids.Empty() {
		return false
	}
	ticket := s.correlator.Begin(ids)
	if ticket == nil {
		return false
	}
	if strings.TrimSpace(lang) != "" {
		s.correlator.RecordLanguage(ids, lang)
	}
	s.storeTicket(ids, ticket)
	return true
}

// GetImages returns the ranked artwork selection for an item. Any failure
// yields an empty selection, never an error; the host must keep working
// with its defaults.
func (s *Service) GetImages(ctx context.Context, item media.Item) Selection {
	selection := Selection{
		RequestID: uuid.NewString(),
		Strategy:  s.opts.Strategy,
	}
	logger := s.logger.With(logging.String(logging.FieldCorrelationID, selection.RequestID))

	if !s.Supports(item) {
		return selection
	}

	ticket := s.takeTicket(item)
	res, err := s.resolver.Resolve(ctx, item, ticket)
	if err != nil {
		logging.WarnWithContext(logger, "language resolution failed", "resolve_failed",
			logging.String(logging.FieldCacheKey, item.CacheKey()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "host falls back to default artwork"))
		s.record(ctx, item, selection, "")
		return selection
	}
	selection.Language = res.Language
	selection.Source = res.Source

	images, err := s.fetchImages(ctx, item, res.Language)
	if err != nil {
		logging.WarnWithContext(logger, "image fetch failed", "images_fetch_failed",
			logging.String(logging.FieldCacheKey, item.CacheKey()),
			logging.String(logging.FieldLanguage, res.Language),
			logging.Error(err),
			logging.String(logging.FieldImpact, "host falls back to default artwork"))
		s.record(ctx, item, selection, res.Language)
		return selection
	}

	selection.Images = s.rank(images, res.Language)

	logger.Info("artwork selected",
		logging.String(logging.FieldCacheKey, item.CacheKey()),
		logging.String(logging.FieldLanguage, res.Language),
		logging.String("source", string(res.Source)),
		logging.Int("image_count", len(selection.Images)))

	s.record(ctx, item, selection, res.Language)
	return selection
}

func (s *Service) fetchImages(ctx context.Context, item media.Item, lang string) (*tmdb.Images, error) {
	id, ok := parseTMDBID(item.DetailsIDs().TMDB)
	if !ok {
		// Without a TMDB id there is nothing to fetch images for.
		return &tmdb.Images{}, nil
	}

	include := []string{language.Primary(lang)}
	if display := language.Primary(s.opts.DisplayLanguage); display != "" {
		include = append(include, display)
	}
	return s.client.GetImages(ctx, string(item.DetailsKind()), id, include)
}

// rank orders each artwork slot independently and concatenates posters,
// backdrops, then logos.
func (s *Service) rank(images *tmdb.Images, lang string) []Image {
	out := make([]Image, 0, len(images.Posters)+len(images.Backdrops)+len(images.Logos))
	out = append(out, s.rankGroup(images.Posters, artwork.KindPoster, lang)...)
	if s.opts.IncludeBackdrops {
		out = append(out, s.rankGroup(images.Backdrops, artwork.KindBackdrop, lang)...)
	}
	if s.opts.IncludeLogos {
		out = append(out, s.rankGroup(images.Logos, artwork.KindLogo, lang)...)
	}
	return out
}

func (s *Service) rankGroup(group []tmdb.Image, kind artwork.Kind, lang string) []Image {
	candidates := make([]artwork.Candidate, 0, len(group))
	for _, img := range group {
		candidates = append(candidates, artwork.Candidate{
			Kind:        kind,
			Path:        img.FilePath,
			Language:    img.Language,
			VoteAverage: img.VoteAverage,
			VoteCount:   img.VoteCount,
		})
	}

	ranked := artwork.Rank(candidates, lang, s.opts.Strategy)
	out := make([]Image, len(ranked))
	for i, c := range ranked {
		out[i] = Image{
			Kind:            c.Kind,
			Path:            c.Path,
			URL:             imageBaseURL + c.Path,
			Language:        c.Language,
			DisplayLanguage: artwork.DisplayLanguage(s.opts.DisplayLanguage, c.Language, lang),
			VoteAverage:     c.VoteAverage,
			VoteCount:       c.VoteCount,
		}
	}
	return out
}

func (s *Service) record(ctx context.Context, item media.Item, selection Selection, lang string) {
	if s.history == nil {
		return
	}
	_, err := s.history.Record(ctx, history.Entry{
		RequestID:  selection.RequestID,
		ItemKind:   string(item.Kind),
		ItemName:   item.Name,
		CacheKey:   item.CacheKey(),
		Language:   lang,
		Source:     string(selection.Source),
		Strategy:   string(selection.Strategy),
		ImageCount: len(selection.Images),
	})
	if err != nil {
		s.logger.Debug("failed to record resolution history",
			logging.String(logging.FieldCorrelationID, selection.RequestID),
			logging.Error(err))
	}
}

func (s *Service) storeTicket(ids media.IDs, ticket *correlator.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range idKeys(ids) {
		s.tickets[id] = ticket
	}
}

// takeTicket retrieves and removes the pending ticket for an item,
// matching ids in tmdb, imdb, tvdb order.
func (s *Service) takeTicket(item media.Item) *correlator.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range idKeys(item.DetailsIDs()) {
		if ticket, ok := s.tickets[id]; ok {
			for _, key := range idKeys(ticket.IDs()) {
				delete(s.tickets, key)
			}
			return ticket
		}
	}
	return nil
}

func idKeys(ids media.IDs) []string {
	keys := make([]string, 0, 3)
	if id := strings.TrimSpace(ids.TMDB); id != "" {
		keys = append(keys, "tmdb:"+id)
	}
	if id := strings.TrimSpace(ids.IMDB); id != "" {
		keys = append(keys, "imdb:"+id)
	}
	if id := strings.TrimSpace(ids.TVDB); id != "" {
		keys = append(keys, "tvdb:"+id)
	}
	return keys
}

func parseTMDBID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

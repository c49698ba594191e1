package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// ProductionCountry is a single entry of a title's production_countries list.
type ProductionCountry struct {
	ISO3166 string `json:"iso_3166_1"`
	Name    string `json:"name"`
}

// CollectionRef is the collection pointer embedded in movie details.
type CollectionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Details carries the language-relevant fields of a movie or TV payload.
type Details struct {
	ID                  int64               `json:"id"`
	Title               string              `json:"title"`
	Name                string              `json:"name"`
	OriginalTitle       string              `json:"original_title"`
	OriginalName        string              `json:"original_name"`
	OriginalLanguage    string              `json:"original_language"`
	OriginCountry       []string            `json:"origin_country"`
	ProductionCountries []ProductionCountry `json:"production_countries"`
	BelongsToCollection *CollectionRef      `json:"belongs_to_collection"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int64               `json:"vote_count"`
}

// DisplayTitle returns the movie title or TV name, whichever is set.
func (d *Details) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// OriginalDisplayTitle returns the original-language title of the entry.
func (d *Details) OriginalDisplayTitle() string {
	if d.OriginalTitle != "" {
		return d.OriginalTitle
	}
	return d.OriginalName
}

// Collection models a TMDB collection payload with its member movies.
type Collection struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Parts []Details `json:"parts"`
}

// Image is a single artwork candidate as returned by the images endpoint.
type Image struct {
	FilePath    string  `json:"file_path"`
	Language    string  `json:"iso_639_1"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int64   `json:"vote_count"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// Images is the full artwork payload for a title.
type Images struct {
	ID        int64   `json:"id"`
	Posters   []Image `json:"posters"`
	Backdrops []Image `json:"backdrops"`
	Logos     []Image `json:"logos"`
}

// FindResult models the /find response for an external-id lookup.
type FindResult struct {
	MovieResults []Details `json:"movie_results"`
	TVResults    []Details `json:"tv_results"`
}

// External-id sources accepted by FindByExternalID.
const (
	SourceIMDB = "imdb_id"
	SourceTVDB = "tvdb_id"
)

// Metadata defines the TMDB operations the resolution pipeline uses.
type Metadata interface {
	GetMovieDetails(ctx context.Context, movieID int64) (*Details, error)
	GetTVDetails(ctx context.Context, showID int64) (*Details, error)
	GetCollection(ctx context.Context, collectionID int64) (*Collection, error)
	GetImages(ctx context.Context, mediaType string, id int64, includeLanguages []string) (*Images, error)
	FindByExternalID(ctx context.Context, externalID, source string) (*FindResult, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	maxRetries int
	httpClient *http.Client
}

var _ Metadata = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMaxRetries sets the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		maxRetries: 3,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetMovieDetails fetches movie details by TMDB ID.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*Details, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Details
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movieID), nil, true, &payload); err != nil {
		return nil, fmt.Errorf("tmdb movie details: %w", err)
	}
	return &payload, nil
}

// GetTVDetails fetches TV show details by TMDB ID.
func (c *Client) GetTVDetails(ctx context.Context, showID int64) (*Details, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	var payload Details
	if err := c.getJSON(ctx, fmt.Sprintf("/tv/%d", showID), nil, true, &payload); err != nil {
		return nil, fmt.Errorf("tmdb tv details: %w", err)
	}
	return &payload, nil
}

// GetCollection fetches a collection and its member movies by TMDB ID.
func (c *Client) GetCollection(ctx context.Context, collectionID int64) (*Collection, error) {
	if collectionID <= 0 {
		return nil, errors.New("collection id must be positive")
	}
	var payload Collection
	if err := c.getJSON(ctx, fmt.Sprintf("/collection/%d", collectionID), nil, true, &payload); err != nil {
		return nil, fmt.Errorf("tmdb collection: %w", err)
	}
	return &payload, nil
}

// GetImages fetches the artwork lists for a title. includeLanguages narrows
// the response to images tagged with those languages plus untagged images
// ("null"); an empty list returns everything.
func (c *Client) GetImages(ctx context.Context, mediaType string, id int64, includeLanguages []string) (*Images, error) {
	if id <= 0 {
		return nil, errors.New("id must be positive")
	}
	mediaType = strings.TrimSpace(mediaType)
	switch mediaType {
	case "movie", "tv", "collection":
	default:
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}

	params := url.Values{}
	if langs := joinImageLanguages(includeLanguages); langs != "" {
		params.Set("include_image_language", langs)
	}

	// The display language is deliberately omitted here: a language
	// parameter on the images endpoint would filter tagged artwork away.
	var payload Images
	if err := c.getJSON(ctx, fmt.Sprintf("/%s/%d/images", mediaType, id), params, false, &payload); err != nil {
		return nil, fmt.Errorf("tmdb images: %w", err)
	}
	return &payload, nil
}

// FindByExternalID resolves an IMDB or TVDB id to TMDB entries.
func (c *Client) FindByExternalID(ctx context.Context, externalID, source string) (*FindResult, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, errors.New("external id must not be empty")
	}
	switch source {
	case SourceIMDB, SourceTVDB:
	default:
		return nil, fmt.Errorf("unsupported external source %q", source)
	}

	params := url.Values{}
	params.Set("external_source", source)

	var payload FindResult
	if err := c.getJSON(ctx, "/find/"+url.PathEscape(externalID), params, true, &payload); err != nil {
		return nil, fmt.Errorf("tmdb find: %w", err)
	}
	return &payload, nil
}

// joinImageLanguages builds the include_image_language parameter value,
// always appending "null" so untagged artwork survives the filter.
func joinImageLanguages(langs []string) string {
	cleaned := make([]string, 0, len(langs)+1)
	seen := make(map[string]struct{}, len(langs))
	for _, lang := range langs {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		if _, ok := seen[lang]; ok {
			continue
		}
		seen[lang] = struct{}{}
		cleaned = append(cleaned, lang)
	}
	if len(cleaned) == 0 {
		return ""
	}
	return strings.Join(append(cleaned, "null"), ",")
}

type statusError struct {
	code    int
	latency time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tmdb returned %d (latency=%v)", e.code, e.latency)
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, withLanguage bool, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if withLanguage && c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("build request: %w", err))
			}

			requestStart := time.Now()
			resp, err := c.httpClient.Do(req)
			latency := time.Since(requestStart)
			if err != nil {
				return fmt.Errorf("execute request (latency=%v): %w", latency, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				statusErr := &statusError{code: resp.StatusCode, latency: latency}
				if retryable(resp.StatusCode) {
					return statusErr
				}
				return retry.Unrecoverable(statusErr)
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

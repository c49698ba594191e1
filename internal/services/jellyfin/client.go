package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"posterlang/internal/config"
	"posterlang/internal/media"
)

// HTTPDoer describes the HTTP client used by the Jellyfin client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LibraryItem is a Jellyfin library entry with its external provider ids.
type LibraryItem struct {
	ID            string            `json:"Id"`
	Name          string            `json:"Name"`
	OriginalTitle string            `json:"OriginalTitle"`
	Type          string            `json:"Type"`
	IndexNumber   int               `json:"IndexNumber"`
	SeriesID      string            `json:"SeriesId"`
	ProviderIDs   map[string]string `json:"ProviderIds"`
}

// MediaItem converts the library entry into the pipeline's item shape.
// Entries of unrecognized types or without provider ids return ok=false.
func (li LibraryItem) MediaItem() (media.Item, bool) {
	kind, ok := media.ParseKind(li.Type)
	if !ok {
		return media.Item{}, false
	}
	item := media.Item{
		Kind:          kind,
		Name:          li.Name,
		OriginalTitle: li.OriginalTitle,
		IDs:           providerIDs(li.ProviderIDs),
	}
	if kind == media.KindSeason {
		item.SeasonNumber = li.IndexNumber
	}
	if item.IDs.Empty() && kind != media.KindSeason {
		return media.Item{}, false
	}
	return item, true
}

func providerIDs(raw map[string]string) media.IDs {
	var ids media.IDs
	for key, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "tmdb":
			ids.TMDB = value
		case "imdb":
			ids.IMDB = value
		case "tvdb":
			ids.TVDB = value
		}
	}
	return ids
}

// Page is one slice of the library listing.
type Page struct {
	Items []LibraryItem `json:"Items"`
	Total int           `json:"TotalRecordCount"`
}

// Client talks to the Jellyfin HTTP API for library enumeration and
// metadata refresh.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient constructs a Jellyfin client against the given server.
func NewClient(baseURL, apiKey string, httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  httpClient,
	}
}

// NewConfiguredClient returns a client when Jellyfin integration is
// enabled and credentials are present, and nil otherwise.
func NewConfiguredClient(cfg *config.Config) *Client {
	if cfg == nil || !cfg.Jellyfin.Enabled {
		return nil
	}
	baseURL := strings.TrimSpace(cfg.Jellyfin.URL)
	apiKey := strings.TrimSpace(cfg.Jellyfin.APIKey)
	if baseURL == "" || apiKey == "" {
		return nil
	}
	return NewClient(baseURL, apiKey, http.DefaultClient)
}

// ListItems fetches one page of library items carrying provider ids.
// The listing covers movies, series, seasons, and box sets.
func (c *Client) ListItems(ctx context.Context, startIndex, limit int) (*Page, error) {
	params := url.Values{}
	params.Set("Recursive", "true")
	params.Set("IncludeItemTypes", "Movie,Series,Season,BoxSet")
	params.Set("Fields", "ProviderIds,OriginalTitle")
	params.Set("StartIndex", strconv.Itoa(startIndex))
	if limit > 0 {
		params.Set("Limit", strconv.Itoa(limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/Items?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build jellyfin items request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list jellyfin items: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("jellyfin items returned %d", resp.StatusCode)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode jellyfin items: %w", err)
	}
	return &page, nil
}

// RefreshItem asks Jellyfin to re-fetch metadata and images for one item,
// which pulls fresh selections from the artwork provider.
func (c *Client) RefreshItem(ctx context.Context, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return fmt.Errorf("jellyfin item id required")
	}
	params := url.Values{}
	params.Set("MetadataRefreshMode", "FullRefresh")
	params.Set("ImageRefreshMode", "FullRefresh")
	params.Set("ReplaceAllImages", "false")

	refreshURL := fmt.Sprintf("%s/Items/%s/Refresh?%s", c.baseURL, url.PathEscape(itemID), params.Encode())
	return c.post(ctx, refreshURL, "refresh jellyfin item")
}

// RefreshLibrary triggers a full library scan.
func (c *Client) RefreshLibrary(ctx context.Context) error {
	return c.post(ctx, c.baseURL+"/Library/Refresh", "refresh jellyfin library")
}

func (c *Client) post(ctx context.Context, rawURL, action string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s returned %d", action, resp.StatusCode)
	}
	return nil
}

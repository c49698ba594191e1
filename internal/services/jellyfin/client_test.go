package jellyfin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"posterlang/internal/config"
	"posterlang/internal/media"
)

func TestListItems(t *testing.T) {
	var gotToken, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Items" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotToken = r.Header.Get("X-Emby-Token")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
            "Items": [
                {"Id": "abc", "Name": "Fight Club", "Type": "Movie", "ProviderIds": {"Tmdb": "550", "Imdb": "tt0137523"}},
                {"Id": "def", "Name": "Breaking Bad", "Type": "Series", "ProviderIds": {"tvdb": "81189"}}
            ],
            "TotalRecordCount": 2
        }`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", server.Client())
	page, err := client.ListItems(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if gotToken != "secret" {
		t.Errorf("token header = %q", gotToken)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("page = %+v", page)
	}

	item, ok := page.Items[0].MediaItem()
	if !ok {
		t.Fatal("movie entry should convert")
	}
	if item.Kind != media.KindMovie || item.IDs.TMDB != "550" || item.IDs.IMDB != "tt0137523" {
		t.Fatalf("converted item = %+v", item)
	}

	// Provider id keys arrive with inconsistent casing across servers.
	series, ok := page.Items[1].MediaItem()
	if !ok || series.Kind != media.KindTV || series.IDs.TVDB != "81189" {
		t.Fatalf("series item = %+v, ok=%v", series, ok)
	}

	for _, want := range []string{"Recursive=true", "StartIndex=0", "Limit=100", "ProviderIds"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestMediaItemRejectsUnknownTypes(t *testing.T) {
	entry := LibraryItem{ID: "x", Name: "Some Playlist", Type: "Playlist", ProviderIDs: map[string]string{"Tmdb": "1"}}
	if _, ok := entry.MediaItem(); ok {
		t.Error("playlist entries should not convert")
	}

	noIDs := LibraryItem{ID: "y", Name: "Home Video", Type: "Movie"}
	if _, ok := noIDs.MediaItem(); ok {
		t.Error("entries without provider ids should not convert")
	}
}

func TestMediaItemSeason(t *testing.T) {
	entry := LibraryItem{ID: "s", Name: "Season 2", Type: "Season", IndexNumber: 2, SeriesID: "def"}
	item, ok := entry.MediaItem()
	if !ok {
		t.Fatal("season entry should convert")
	}
	if item.Kind != media.KindSeason || item.SeasonNumber != 2 {
		t.Fatalf("season item = %+v", item)
	}
}

func TestRefreshItem(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", server.Client())
	if err := client.RefreshItem(context.Background(), "abc"); err != nil {
		t.Fatalf("RefreshItem returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/Items/abc/Refresh" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}

	if err := client.RefreshItem(context.Background(), ""); err == nil {
		t.Error("empty item id should fail")
	}
}

func TestRefreshLibraryErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", server.Client())
	if err := client.RefreshLibrary(context.Background()); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestNewConfiguredClient(t *testing.T) {
	if NewConfiguredClient(nil) != nil {
		t.Error("nil config should yield nil client")
	}

	cfg := &config.Config{}
	cfg.Jellyfin.Enabled = true
	cfg.Jellyfin.URL = "http://jellyfin.local:8096"
	if NewConfiguredClient(cfg) != nil {
		t.Error("missing api key should yield nil client")
	}

	cfg.Jellyfin.APIKey = "secret"
	if NewConfiguredClient(cfg) == nil {
		t.Error("complete config should yield a client")
	}
}

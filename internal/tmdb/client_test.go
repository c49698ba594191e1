package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New("test-key", server.URL, "en-US", WithHTTPClient(server.Client()), WithMaxRetries(2))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestGetMovieDetails(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("missing api_key parameter")
		}
		w.Write([]byte(`{
			"id": 550,
			"title": "Fight Club",
			"original_title": "Fight Club",
			"original_language": "en",
			"production_countries": [{"iso_3166_1": "US", "name": "United States of America"}],
			"vote_average": 8.4,
			"vote_count": 26000
		}`))
	}))

	details, err := client.GetMovieDetails(context.Background(), 550)
	if err != nil {
		t.Fatalf("GetMovieDetails returned error: %v", err)
	}
	if details.OriginalLanguage != "en" {
		t.Errorf("original language = %q", details.OriginalLanguage)
	}
	if len(details.ProductionCountries) != 1 || details.ProductionCountries[0].ISO3166 != "US" {
		t.Errorf("production countries = %v", details.ProductionCountries)
	}
	if details.DisplayTitle() != "Fight Club" {
		t.Errorf("display title = %q", details.DisplayTitle())
	}
}

func TestGetImagesIncludeLanguageParameter(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.URL.Query().Get("include_image_language")
		if got != "ja,null" {
			t.Errorf("include_image_language = %q, want %q", got, "ja,null")
		}
		if r.URL.Query().Has("language") {
			t.Error("images request should not carry the display language parameter")
		}
		w.Write([]byte(`{
			"id": 129,
			"posters": [
				{"file_path": "/a.jpg", "iso_639_1": "ja", "vote_average": 6.1, "vote_count": 12},
				{"file_path": "/b.jpg", "iso_639_1": null, "vote_average": 5.5, "vote_count": 4}
			],
			"backdrops": [],
			"logos": []
		}`))
	}))

	images, err := client.GetImages(context.Background(), "movie", 129, []string{"ja"})
	if err != nil {
		t.Fatalf("GetImages returned error: %v", err)
	}
	if len(images.Posters) != 2 {
		t.Fatalf("expected 2 posters, got %d", len(images.Posters))
	}
	if images.Posters[1].Language != "" {
		t.Errorf("null iso_639_1 should decode to empty, got %q", images.Posters[1].Language)
	}
}

func TestGetImagesRejectsUnknownMediaType(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	if _, err := client.GetImages(context.Background(), "episode", 1, nil); err == nil {
		t.Fatal("expected error for unsupported media type")
	}
}

func TestFindByExternalID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/find/tt0137523" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("external_source") != "imdb_id" {
			t.Errorf("external_source = %q", r.URL.Query().Get("external_source"))
		}
		w.Write([]byte(`{"movie_results": [{"id": 550, "original_language": "en"}], "tv_results": []}`))
	}))

	result, err := client.FindByExternalID(context.Background(), "tt0137523", SourceIMDB)
	if err != nil {
		t.Fatalf("FindByExternalID returned error: %v", err)
	}
	if len(result.MovieResults) != 1 || result.MovieResults[0].ID != 550 {
		t.Fatalf("movie results = %v", result.MovieResults)
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id": 550, "original_language": "en"}`))
	}))

	details, err := client.GetMovieDetails(context.Background(), 550)
	if err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if details.ID != 550 {
		t.Errorf("details id = %d", details.ID)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.GetMovieDetails(context.Background(), 550)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry status code: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("404 must not be retried, got %d attempts", calls.Load())
	}
}

func TestGetCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collection/1241" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 1241,
			"name": "Harry Potter Collection",
			"parts": [
				{"id": 671, "original_language": "en"},
				{"id": 672, "original_language": "en"}
			]
		}`))
	}))

	collection, err := client.GetCollection(context.Background(), 1241)
	if err != nil {
		t.Fatalf("GetCollection returned error: %v", err)
	}
	if len(collection.Parts) != 2 {
		t.Fatalf("parts = %d", len(collection.Parts))
	}
}

func TestJoinImageLanguages(t *testing.T) {
	if got := joinImageLanguages(nil); got != "" {
		t.Errorf("empty input = %q", got)
	}
	if got := joinImageLanguages([]string{"ja", "", "ja", "en"}); got != "ja,en,null" {
		t.Errorf("joinImageLanguages = %q", got)
	}
}

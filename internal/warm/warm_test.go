package warm

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"posterlang/internal/config"
	"posterlang/internal/langcache"
	"posterlang/internal/resolver"
	"posterlang/internal/services/jellyfin"
	"posterlang/internal/tmdb"
)

type fakeLibrary struct {
	items []jellyfin.LibraryItem
	calls int
}

func (f *fakeLibrary) ListItems(_ context.Context, startIndex, limit int) (*jellyfin.Page, error) {
	f.calls++
	end := startIndex + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	if startIndex > end {
		startIndex = end
	}
	return &jellyfin.Page{Items: f.items[startIndex:end], Total: len(f.items)}, nil
}

type fakeMetadata struct {
	movies map[int64]*tmdb.Details
	tv     map[int64]*tmdb.Details
}

func (f *fakeMetadata) GetMovieDetails(_ context.Context, id int64) (*tmdb.Details, error) {
	if d, ok := f.movies[id]; ok {
		return d, nil
	}
	return nil, errors.New("movie not found")
}

func (f *fakeMetadata) GetTVDetails(_ context.Context, id int64) (*tmdb.Details, error) {
	if d, ok := f.tv[id]; ok {
		return d, nil
	}
	return nil, errors.New("series not found")
}

func (f *fakeMetadata) GetCollection(context.Context, int64) (*tmdb.Collection, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMetadata) GetImages(context.Context, string, int64, []string) (*tmdb.Images, error) {
	return &tmdb.Images{}, nil
}

func (f *fakeMetadata) FindByExternalID(context.Context, string, string) (*tmdb.FindResult, error) {
	return &tmdb.FindResult{}, nil
}

func newTestTask(t *testing.T, library Library, client tmdb.Metadata, cfg config.Warm) (*Task, *langcache.Cache) {
	t.Helper()
	cache := langcache.NewCache(filepath.Join(t.TempDir(), "cache.json"), nil)
	res, err := resolver.New(client, cache, nil, nil, nil)
	if err != nil {
		t.Fatalf("resolver.New returned error: %v", err)
	}
	task, err := New(library, res, cfg, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return task, cache
}

func TestRunWarmsCache(t *testing.T) {
	library := &fakeLibrary{items: []jellyfin.LibraryItem{
		{ID: "a", Name: "Fight Club", Type: "Movie", ProviderIDs: map[string]string{"Tmdb": "550"}},
		{ID: "b", Name: "Breaking Bad", Type: "Series", ProviderIDs: map[string]string{"Tmdb": "1396"}},
		{ID: "c", Name: "Season 1", Type: "Season", IndexNumber: 1, SeriesID: "b"},
	}}
	client := &fakeMetadata{
		movies: map[int64]*tmdb.Details{550: {ID: 550, OriginalLanguage: "en"}},
		tv:     map[int64]*tmdb.Details{1396: {ID: 1396, OriginalLanguage: "en"}},
	}
	task, cache := newTestTask(t, library, client, config.Warm{})

	stats, err := task.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Scanned != 3 || stats.Resolved != 3 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}

	for _, key := range []string{"movie_550", "tv_1396", "tv_1396_S1"} {
		if lang, ok := cache.Lookup(key); !ok || lang != "en" {
			t.Errorf("cache %q = (%q, %v)", key, lang, ok)
		}
	}
}

func TestRunSkipsUnconvertibleEntries(t *testing.T) {
	library := &fakeLibrary{items: []jellyfin.LibraryItem{
		{ID: "a", Name: "Some Playlist", Type: "Playlist"},
		{ID: "b", Name: "Home Video", Type: "Movie"},
		{ID: "c", Name: "Season 9", Type: "Season", IndexNumber: 9, SeriesID: "unknown"},
	}}
	task, _ := newTestTask(t, library, &fakeMetadata{}, config.Warm{})

	stats, err := task.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Scanned != 3 || stats.Skipped != 3 || stats.Resolved != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRunHonorsItemCap(t *testing.T) {
	items := make([]jellyfin.LibraryItem, 0, 10)
	movies := make(map[int64]*tmdb.Details)
	for i := 0; i < 10; i++ {
		id := int64(100 + i)
		items = append(items, jellyfin.LibraryItem{
			ID:          string(rune('a' + i)),
			Name:        "Movie",
			Type:        "Movie",
			ProviderIDs: map[string]string{"Tmdb": string(rune('0' + i))},
		})
		movies[id] = &tmdb.Details{ID: id, OriginalLanguage: "en"}
	}
	library := &fakeLibrary{items: items}
	task, _ := newTestTask(t, library, &fakeMetadata{movies: movies}, config.Warm{MaxItems: 4})

	stats, err := task.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Scanned != 4 {
		t.Fatalf("scanned = %d, want 4", stats.Scanned)
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	library := &fakeLibrary{items: []jellyfin.LibraryItem{
		{ID: "a", Name: "Movie", Type: "Movie", ProviderIDs: map[string]string{"Tmdb": "550"}},
	}}
	task, _ := newTestTask(t, library, &fakeMetadata{}, config.Warm{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := task.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunCountsFailures(t *testing.T) {
	library := &fakeLibrary{items: []jellyfin.LibraryItem{
		{ID: "a", Name: "Known", Type: "Movie", ProviderIDs: map[string]string{"Tmdb": "550"}},
		{ID: "b", Name: "Unknown", Type: "Movie", ProviderIDs: map[string]string{"Tmdb": "999"}},
	}}
	client := &fakeMetadata{movies: map[int64]*tmdb.Details{550: {ID: 550, OriginalLanguage: "en"}}}
	task, _ := newTestTask(t, library, client, config.Warm{})

	stats, err := task.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if stats.Resolved != 1 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

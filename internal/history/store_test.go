package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, Entry{
		RequestID:  "req-1",
		ItemKind:   "movie",
		ItemName:   "Fight Club",
		CacheKey:   "movie_550",
		Language:   "en",
		Source:     "details",
		Strategy:   "original-language-first",
		ImageCount: 12,
	})
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	if _, err := store.Record(ctx, Entry{RequestID: "req-2", ItemKind: "tv", CacheKey: "tv_1396"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(entries))
	}
	if entries[0].RequestID != "req-2" {
		t.Errorf("List should be newest first, got %q", entries[0].RequestID)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List with limit returned error: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited List returned %d entries", len(limited))
	}
}

func TestListByCacheKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Record(ctx, Entry{RequestID: "a", ItemKind: "movie", CacheKey: "movie_550", Language: "en"})
	store.Record(ctx, Entry{RequestID: "b", ItemKind: "movie", CacheKey: "movie_603", Language: "en"})
	store.Record(ctx, Entry{RequestID: "c", ItemKind: "movie", CacheKey: "movie_550", Language: "en"})

	entries, err := store.ListByCacheKey(ctx, "movie_550")
	if err != nil {
		t.Fatalf("ListByCacheKey returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for movie_550, got %d", len(entries))
	}
	if entries[0].RequestID != "c" {
		t.Errorf("newest entry first expected, got %q", entries[0].RequestID)
	}
}

func TestCountAndPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Record(ctx, Entry{RequestID: "old", ItemKind: "movie", CacheKey: "movie_1"})
	store.Record(ctx, Entry{RequestID: "new", ItemKind: "movie", CacheKey: "movie_2"})

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("Count = %d, want 2", count)
	}

	// Cutoff in the future removes everything.
	removed, err := store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("Prune removed %d rows, want 2", removed)
	}

	count, _ = store.Count(ctx)
	if count != 0 {
		t.Errorf("Count after prune = %d", count)
	}
}

func TestGetByIDMissing(t *testing.T) {
	store := newTestStore(t)
	entry, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil for missing id, got %+v", entry)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	store.Record(context.Background(), Entry{RequestID: "persist", ItemKind: "movie", CacheKey: "movie_550"})
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(context.Background())
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("Count after reopen = %d", count)
	}
}

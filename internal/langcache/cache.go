package langcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"posterlang/internal/logging"
)

// Entry is a single cache record as surfaced to the CLI and API.
type Entry struct {
	Key      string `json:"key"`
	Language string `json:"language"`
}

// Cache provides thread-safe access to the persisted language map.
// Keys follow the "{type}_{id}" convention ("movie_550", "tv_1396_S1").
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache creates a cache backed by the given file. If path is empty the
// cache is non-functional and every operation becomes a no-op. The file
// is created lazily on first Store.
func NewCache(path string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "langcache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]string),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load language cache",
			logging.String(logging.FieldEventType, "langcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "languages will be re-resolved from metadata"))
	}

	return c
}

// Lookup returns the cached language for the given key if present.
func (c *Cache) Lookup(key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" || c.path == "" {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	lang, found := c.entries[key]
	return lang, found
}

// Store records a language under the given key and persists to disk.
// Storing a value identical to the existing one skips the disk write.
func (c *Cache) Store(key, lang string) error {
	key = strings.TrimSpace(key)
	lang = strings.TrimSpace(lang)
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if lang == "" {
		return errors.New("language cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok && existing == lang {
		return nil
	}

	c.entries[key] = lang

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached original language",
		logging.String("key", key),
		logging.String("language", lang))

	return nil
}

// Remove deletes an entry by key and persists the change.
func (c *Cache) Remove(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		return fmt.Errorf("key %q not found in cache", key)
	}

	delete(c.entries, key)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("removed language cache entry", logging.String("key", key))
	return nil
}

// List returns all entries sorted by key.
func (c *Cache) List() []Entry {
	if c.path == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.entries))
	for key, lang := range c.entries {
		entries = append(entries, Entry{Key: key, Language: lang})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]string)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cleared language cache")
	return nil
}

// Count returns the number of cached entries.
func (c *Cache) Count() int {
	if c.path == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// load reads the cache file into memory.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]string, len(entries))
	for key, lang := range entries {
		if strings.TrimSpace(key) != "" && strings.TrimSpace(lang) != "" {
			c.entries[key] = lang
		}
	}

	c.logger.Debug("loaded language cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// save writes the cache to disk atomically. The wire format is a single
// JSON object mapping keys to language tags.
func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

package correlator

import (
	"strings"
	"sync"

	"posterlang/internal/media"
)

// Ticket is the handle returned by Begin. The images path presents it to
// Consume to collect whatever language was recorded in between.
type Ticket struct {
	ids media.IDs
	rec *record
}

// IDs returns the external ids the ticket was registered under.
func (t *Ticket) IDs() media.IDs {
	if t == nil {
		return media.IDs{}
	}
	return t.ids
}

type record struct {
	language string
}

// Correlator is an in-memory join table keyed by external catalog ids.
// All three indexes point at shared records, so a language recorded
// under a title's tmdb id is visible through its imdb and tvdb ids too.
// Safe for concurrent use.
type Correlator struct {
	mu     sync.Mutex
	byTMDB map[string]*record
	byIMDB map[string]*record
	byTVDB map[string]*record
}

// New returns an empty correlator.
func New() *Correlator {
	return &Correlator{
		byTMDB: make(map[string]*record),
		byIMDB: make(map[string]*record),
		byTVDB: make(map[string]*record),
	}
}

// Begin registers a pending lookup under each non-empty external id and
// returns a ticket for the eventual Consume. Registering ids already
// present overwrites the prior entries (last write wins). Begin with no
// ids at all returns nil; Consume tolerates a nil ticket.
func (c *Correlator) Begin(ids media.IDs) *Ticket {
	if ids.Empty() {
		return nil
	}
	rec := &record{}
	c.mu.Lock()
	defer c.mu.Unlock()
	if id := strings.TrimSpace(ids.TMDB); id != "" {
		c.byTMDB[id] = rec
	}
	if id := strings.TrimSpace(ids.IMDB); id != "" {
		c.byIMDB[id] = rec
	}
	if id := strings.TrimSpace(ids.TVDB); id != "" {
		c.byTVDB[id] = rec
	}
	return &Ticket{ids: ids, rec: rec}
}

// RecordLanguage attaches a resolved language to the pending record
// matching the given ids, trying tmdb, then imdb, then tvdb. Returns
// false when no index holds any of the ids, which means no lookup is in
// flight for the title (or it was already consumed).
func (c *Correlator) RecordLanguage(ids media.IDs, lang string) bool {
	lang = strings.TrimSpace(lang)
	if lang == "" || ids.Empty() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.find(ids)
	if rec == nil {
		return false
	}
	rec.language = lang
	return true
}

// Consume removes the ticket's record from every index and returns the
// recorded language, if any. A second Consume of the same ticket, or a
// Consume after a newer Begin displaced the ticket's entries, finds
// nothing and returns ok=false.
func (c *Correlator) Consume(t *Ticket) (string, bool) {
	if t == nil || t.rec == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	found := false
	if id := strings.TrimSpace(t.ids.TMDB); id != "" {
		if c.byTMDB[id] == t.rec {
			delete(c.byTMDB, id)
			found = true
		}
	}
	if id := strings.TrimSpace(t.ids.IMDB); id != "" {
		if c.byIMDB[id] == t.rec {
			delete(c.byIMDB, id)
			found = true
		}
	}
	if id := strings.TrimSpace(t.ids.TVDB); id != "" {
		if c.byTVDB[id] == t.rec {
			delete(c.byTVDB, id)
			found = true
		}
	}
	if !found {
		return "", false
	}
	if t.rec.language == "" {
		return "", false
	}
	return t.rec.language, true
}

// Pending reports how many distinct records are currently registered.
// Exposed for the status endpoint.
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	seen := make(map[*record]struct{}, len(c.byTMDB))
	for _, rec := range c.byTMDB {
		seen[rec] = struct{}{}
	}
	for _, rec := range c.byIMDB {
		seen[rec] = struct{}{}
	}
	for _, rec := range c.byTVDB {
		seen[rec] = struct{}{}
	}
	return len(seen)
}

func (c *Correlator) find(ids media.IDs) *record {
	if id := strings.TrimSpace(ids.TMDB); id != "" {
		if rec, ok := c.byTMDB[id]; ok {
			return rec
		}
	}
	if id := strings.TrimSpace(ids.IMDB); id != "" {
		if rec, ok := c.byIMDB[id]; ok {
			return rec
		}
	}
	if id := strings.TrimSpace(ids.TVDB); id != "" {
		if rec, ok := c.byTVDB[id]; ok {
			return rec
		}
	}
	return nil
}

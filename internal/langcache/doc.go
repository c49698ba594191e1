// Package langcache persists resolved original-language facts keyed by
// item type and external id, so repeat lookups for the same title skip
// the metadata round trips. The store is a single JSON object on disk,
// rewritten atomically on change.
package langcache

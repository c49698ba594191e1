// Package jellyfin integrates with the Jellyfin HTTP API. The client
// enumerates library items with their external provider ids, which feeds
// the cache warming task, and triggers per-item or library-wide metadata
// refreshes so new artwork selections propagate to the server.
package jellyfin

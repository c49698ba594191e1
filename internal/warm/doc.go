// Package warm walks the Jellyfin library and resolves the original
// language for every eligible item ahead of demand, so later artwork
// requests hit the persistent cache instead of the metadata API. The
// walk is throttled with a configurable per-item delay and an optional
// item cap to keep pressure off TMDB.
package warm

// Package resolver determines a title's original language by walking a
// fixed fallback chain: observed facts from earlier metadata calls, the
// persisted cache, TMDB details, external-id lookups, a script heuristic
// over the original title, and finally configured fallback languages.
package resolver

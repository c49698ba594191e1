// Package tmdb provides the metadata client behind language resolution
// and artwork fetching: title details, external-id lookups, collection
// aggregates, and image lists filtered by language.
package tmdb

// Package history persists an audit trail of artwork resolutions: which
// language was chosen for an item, which step of the chain produced it,
// and how many images the selection returned. Backed by SQLite.
package history

// Package provider is the host-facing orchestration layer: it resolves an
// item's original language, fetches artwork candidates, ranks them, and
// returns the ordered selection. Failures never propagate to the host;
// the provider degrades to an empty result so default artwork handling
// takes over.
package provider

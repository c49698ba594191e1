// Package daemon coordinates the long-running posterlang process.
//
// It wires configuration, the language cache, the resolution history,
// the TMDB client, and the provider service into a single lifecycle
// with flock-based locking to prevent multiple instances, and serves
// the HTTP API the media server and the CLI talk to.
//
// Keep orchestration logic here: resolution and ranking live in their
// respective packages while the daemon focuses on startup, shutdown,
// and high level coordination.
package daemon

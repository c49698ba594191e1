// Package api defines the daemon's HTTP wire types and a client for
// them. The daemon serves these payloads; the CLI talks to a running
// daemon through Client instead of duplicating the pipeline wiring.
package api

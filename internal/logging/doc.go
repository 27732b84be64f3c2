// Package logging provides a unified logging interface for the prediction client.
// It abstracts the underlying logging implementation, allowing consistent logging
// across the gateway, orchestrator and front ends while supporting multiple backends.
package logging

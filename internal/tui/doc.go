// Package tui implements the full-screen terminal interface: a request form,
// a transient toast line, a blocking error overlay, the comparison chart and
// the results panel. It is built on bubbletea and drives the orchestrator
// through commands so the event loop never blocks on a status transition.
package tui

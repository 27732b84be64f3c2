// Package chart renders price series as terminal text: multi-row braille
// line charts with several overlaid series, and single-row block sparklines.
// It is shared by the CLI results block and the TUI chart panel.
package chart

// Package ui provides the color themes shared by the CLI presenter and the
// TUI. Themes carry ANSI escape codes for line-oriented output and lipgloss
// colors for the full-screen interface, including one color per chart series.
package ui

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/stockbot/internal/format"
	"github.com/agbru/stockbot/internal/status"
)

// HeaderModel renders the top bar: title, version, status and the duration
// of the last settled request.
type HeaderModel struct {
	version string
	status  status.Status
	elapsed time.Duration
	host    string
	width   int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// SetStatus updates the displayed status.
func (h *HeaderModel) SetStatus(s status.Status) { h.status = s }

// SetElapsed records the duration of the last settled request.
func (h *HeaderModel) SetElapsed(d time.Duration) { h.elapsed = d }

// SetHost sets the host usage text shown on the right.
func (h *HeaderModel) SetHost(s string) { h.host = s }

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) { h.width = w }

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "Stockbot"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")

	row := titleStyle.Render(titleText) + pipe + statusStyle(h.status).Render(h.status.String())
	if h.elapsed > 0 {
		row += pipe + elapsedStyle.Render(fmt.Sprintf("Last run: %s", format.FormatExecutionDuration(h.elapsed)))
	}

	host := versionStyle.Render(h.host)
	gap := max(h.width-2-lipgloss.Width(row)-lipgloss.Width(host), 1)
	return headerStyle.Render(row + spaces(gap) + host)
}

func statusStyle(s status.Status) lipgloss.Style {
	switch s {
	case status.Loading:
		return statusLoadingStyle
	case status.Success:
		return statusSuccessStyle
	case status.Error:
		return statusErrorStyle
	default:
		return statusIdleStyle
	}
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

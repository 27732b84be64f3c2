package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/stockbot/internal/ui"
)

// Style variables for the TUI.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	labelStyle         lipgloss.Style
	focusedLabelStyle  lipgloss.Style
	valueStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	toastStyle         lipgloss.Style
	noticeStyle        lipgloss.Style
	overlayStyle       lipgloss.Style
	overlayTitleStyle  lipgloss.Style
	statusIdleStyle    lipgloss.Style
	statusLoadingStyle lipgloss.Style
	statusSuccessStyle lipgloss.Style
	statusErrorStyle   lipgloss.Style
	actualStyle        lipgloss.Style
	predictedStyle     lipgloss.Style
	futureStyle        lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().Foreground(t.Dim)
	elapsedStyle = lipgloss.NewStyle().Foreground(t.Accent)

	labelStyle = lipgloss.NewStyle().Foreground(t.Dim)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	dimStyle = lipgloss.NewStyle().Foreground(t.Dim)

	toastStyle = lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(t.Warning)

	overlayStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Error).
		Padding(1, 3).
		Align(lipgloss.Center)
	overlayTitleStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	statusIdleStyle = lipgloss.NewStyle().Foreground(t.Dim)
	statusLoadingStyle = lipgloss.NewStyle().Foreground(t.Info).Bold(true)
	statusSuccessStyle = lipgloss.NewStyle().Foreground(t.Success).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	actualStyle = lipgloss.NewStyle().Foreground(t.Actual)
	predictedStyle = lipgloss.NewStyle().Foreground(t.Predicted)
	futureStyle = lipgloss.NewStyle().Foreground(t.Future)
}

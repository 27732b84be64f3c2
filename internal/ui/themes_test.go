package ui

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

// These tests mutate the package-level theme and therefore do not run in
// parallel.

func TestSetTheme(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"orange", "dark"},
		{"", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		assert.Equal(t, tt.want, GetCurrentTheme().Name, "SetTheme(%q)", tt.name)
	}
}

func TestInitTheme_NoColorFlag(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	InitTheme(true)
	assert.Equal(t, NoColorTheme, GetCurrentTheme())
	assert.Empty(t, ColorRed()+ColorGreen()+ColorBold()+ColorReset()+SeriesColor(1))
	assert.Equal(t, NoColorTUITheme, GetCurrentTUITheme())
}

func TestInitTheme_NoColorEnv(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	t.Setenv("NO_COLOR", "")
	InitTheme(false)
	assert.Equal(t, "none", GetCurrentTheme().Name)
}

func TestInitTheme_NamedTheme(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		t.Skip("NO_COLOR is set in the environment")
	}
	t.Setenv("STOCKBOT_THEME", "light")
	InitTheme(false)
	assert.Equal(t, "light", GetCurrentTheme().Name)
	assert.Equal(t, lipgloss.TerminalColor(lipgloss.Color("#D75F00")), GetCurrentTUITheme().Predicted)
}

func TestSeriesColor(t *testing.T) {
	saved := GetCurrentTheme()
	t.Cleanup(func() { SetCurrentTheme(saved) })

	SetCurrentTheme(DarkTheme)
	assert.Equal(t, DarkTheme.Actual, SeriesColor(0))
	assert.Equal(t, DarkTheme.Predicted, SeriesColor(1))
	assert.Equal(t, DarkTheme.Future, SeriesColor(2))
	assert.Equal(t, DarkTheme.Secondary, SeriesColor(7))
	assert.Equal(t, DarkTheme.Actual, ColorCyan())
}

package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for line-oriented output.
// Each field contains an ANSI escape code for the corresponding category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color for headings and symbols.
	Primary string
	// Secondary is used for labels and less prominent elements.
	Secondary string
	// Success marks a settled prediction.
	Success string
	// Warning is used for notices such as insufficient history.
	Warning string
	// Error marks failed requests.
	Error string
	// Info is used for informational messages.
	Info string
	// Actual colors the observed price series.
	Actual string
	// Predicted colors the model's prediction series.
	Predicted string
	// Future colors the extrapolated future series.
	Future string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Dim is the escape code for faint text.
	Dim string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;141m", // Purple
		Actual:    "\033[38;5;75m",  // Sky blue
		Predicted: "\033[38;5;208m", // Orange
		Future:    "\033[38;5;171m", // Magenta
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Dim:       "\033[2m",
		Reset:     "\033[0m",
	}

	// LightTheme is optimized for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",  // Dark blue
		Secondary: "\033[38;5;240m", // Dark grey
		Success:   "\033[38;5;28m",  // Dark green
		Warning:   "\033[38;5;130m", // Orange
		Error:     "\033[38;5;124m", // Dark red
		Info:      "\033[38;5;54m",  // Dark purple
		Actual:    "\033[38;5;25m",  // Navy
		Predicted: "\033[38;5;166m", // Burnt orange
		Future:    "\033[38;5;90m",  // Plum
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Dim:       "\033[2m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color is given.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme defines lipgloss colors for the full-screen interface.
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor

	Actual    lipgloss.TerminalColor
	Predicted lipgloss.TerminalColor
	Future    lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default TUI palette.
	DarkTUITheme = TUITheme{
		Bg:        lipgloss.Color("#000000"),
		Text:      lipgloss.Color("#E0E0E0"),
		Border:    lipgloss.Color("#3A7BD5"),
		Accent:    lipgloss.Color("#4FC3F7"),
		Success:   lipgloss.Color("#9ece6a"),
		Warning:   lipgloss.Color("#FFB347"),
		Error:     lipgloss.Color("#FF4444"),
		Dim:       lipgloss.Color("#666666"),
		Info:      lipgloss.Color("#B39DDB"),
		Actual:    lipgloss.Color("#5FAFFF"),
		Predicted: lipgloss.Color("#FF8C00"),
		Future:    lipgloss.Color("#D75FD7"),
	}

	// LightTUITheme is the TUI palette for light terminals.
	LightTUITheme = TUITheme{
		Bg:        lipgloss.Color("#FFFFFF"),
		Text:      lipgloss.Color("#1E1E1E"),
		Border:    lipgloss.Color("#1F4E99"),
		Accent:    lipgloss.Color("#005FAF"),
		Success:   lipgloss.Color("#2E7D32"),
		Warning:   lipgloss.Color("#AF5F00"),
		Error:     lipgloss.Color("#AF0000"),
		Dim:       lipgloss.Color("#8A8A8A"),
		Info:      lipgloss.Color("#5F0087"),
		Actual:    lipgloss.Color("#005FAF"),
		Predicted: lipgloss.Color("#D75F00"),
		Future:    lipgloss.Color("#870087"),
	}

	// NoColorTUITheme renders everything with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Bg:        lipgloss.NoColor{},
		Text:      lipgloss.NoColor{},
		Border:    lipgloss.NoColor{},
		Accent:    lipgloss.NoColor{},
		Success:   lipgloss.NoColor{},
		Warning:   lipgloss.NoColor{},
		Error:     lipgloss.NoColor{},
		Dim:       lipgloss.NoColor{},
		Info:      lipgloss.NoColor{},
		Actual:    lipgloss.NoColor{},
		Predicted: lipgloss.NoColor{},
		Future:    lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the TUI theme matching the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	switch currentTheme.Name {
	case NoColorTheme.Name:
		return NoColorTUITheme
	case LightTheme.Name:
		return LightTUITheme
	default:
		return DarkTUITheme
	}
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used by tests to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name.
// Valid names are "dark", "light" and "none". Unknown names select dark.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case LightTheme.Name:
		currentTheme = LightTheme
	case NoColorTheme.Name:
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// InitTheme initializes the theme from the noColor flag and the environment.
// It respects the NO_COLOR environment variable (https://no-color.org/).
// STOCKBOT_THEME selects a named theme otherwise.
//
// Parameters:
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(noColor bool) {
	if noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetTheme(os.Getenv("STOCKBOT_THEME"))
}

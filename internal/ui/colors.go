package ui

// The functions below return the escape code of the active theme, so callers
// can write fmt.Sprintf("%sAAPL%s", ColorBold(), ColorReset()) and get plain
// text when colors are disabled.

// ColorReset returns the code that clears all formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary color.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorCyan returns the color of the actual price series.
func ColorCyan() string { return GetCurrentTheme().Actual }

// ColorMagenta returns the info color.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorBold returns the bold code.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline code.
func ColorUnderline() string { return GetCurrentTheme().Underline }

// ColorDim returns the faint text code.
func ColorDim() string { return GetCurrentTheme().Dim }

// SeriesColor returns the color of chart layer i: actual, predicted, then
// future. Out of range layers get the secondary color.
func SeriesColor(i int) string {
	t := GetCurrentTheme()
	switch i {
	case 0:
		return t.Actual
	case 1:
		return t.Predicted
	case 2:
		return t.Future
	default:
		return t.Secondary
	}
}

package chart

import "fmt"

// Title returns the heading of the comparison chart for one request. Charts
// of return series carry a suffix so readers do not mistake them for prices.
func Title(symbol, start, end string, percent bool) string {
	title := fmt.Sprintf("Model Comparison - %s / %s / %s", symbol, start, end)
	if percent {
		title += " - Return Percentage"
	}
	return title
}

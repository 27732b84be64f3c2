package chart

import "math"

// sparklineChars maps values 0..7 to Unicode block elements.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one row of block characters scaled between
// their minimum and maximum. A flat series renders at mid height.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi, ok := Bounds(values)
	runes := make([]rune, len(values))
	for i, v := range values {
		idx := 3
		switch {
		case !ok || math.IsNaN(v) || math.IsInf(v, 0):
			idx = 0
		case hi > lo:
			idx = int(math.Round((v - lo) / (hi - lo) * 7))
		}
		runes[i] = sparklineChars[idx]
	}
	return string(runes)
}

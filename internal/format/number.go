package format

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// PriceDecimals is the number of decimals shown for prices.
	PriceDecimals = 2
	// PercentDecimals is the number of decimals shown for return percentages.
	PercentDecimals = 2
	// MetricDecimals is the number of decimals shown for error metrics.
	MetricDecimals = 4
)

// FormatPrice renders v as a dollar amount with thousands separators,
// e.g. "$1,234.50". Negative values render as "-$3.00".
func FormatPrice(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	d := decimal.NewFromFloat(v).Round(PriceDecimals)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "$" + groupThousands(d.StringFixed(PriceDecimals))
}

// FormatPercent renders v, already expressed in percent, e.g. "1.25%".
func FormatPercent(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(PercentDecimals) + "%"
}

// FormatValue renders v as a percentage when percent is set and as a price
// otherwise.
func FormatValue(v float64, percent bool) string {
	if percent {
		return FormatPercent(v)
	}
	return FormatPrice(v)
}

// FormatMetric renders an error metric such as the mean squared error.
func FormatMetric(v float64) string {
	if !finite(v) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).StringFixed(MetricDecimals)
}

// FormatSeries renders values joined by ", ", eliding the middle when there
// are more than limit entries. A non-positive limit shows everything.
func FormatSeries(values []float64, percent bool, limit int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(values))
	if limit > 0 && len(values) > limit {
		head := (limit + 1) / 2
		tail := limit - head
		for _, v := range values[:head] {
			parts = append(parts, FormatValue(v, percent))
		}
		parts = append(parts, "…")
		for _, v := range values[len(values)-tail:] {
			parts = append(parts, FormatValue(v, percent))
		}
		return strings.Join(parts, ", ")
	}
	for _, v := range values {
		parts = append(parts, FormatValue(v, percent))
	}
	return strings.Join(parts, ", ")
}

// groupThousands inserts commas into the integer part of a fixed-point
// decimal string.
func groupThousands(s string) string {
	intPart, frac, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package format

import (
	"math"
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{42 * time.Millisecond, "42ms"},
		{1500 * time.Millisecond, "1.5s"},
		{2*time.Minute + 3*time.Second + 400*time.Microsecond, "2m3s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.in); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{3.14159, "$3.14"},
		{123.455, "$123.46"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-3, "-$3.00"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercentAndMetric(t *testing.T) {
	t.Parallel()
	if got := FormatPercent(1.256); got != "1.26%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(-0.5); got != "-0.50%" {
		t.Errorf("FormatPercent negative = %q", got)
	}
	if got := FormatMetric(12.345678); got != "12.3457" {
		t.Errorf("FormatMetric = %q", got)
	}
	if got := FormatMetric(math.Inf(1)); got != "n/a" {
		t.Errorf("FormatMetric(Inf) = %q", got)
	}
	if FormatValue(2, true) != "2.00%" || FormatValue(2, false) != "$2.00" {
		t.Error("FormatValue should pick units from the percent flag")
	}
}

func TestFormatSeries(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		values  []float64
		percent bool
		limit   int
		want    string
	}{
		{"empty", nil, false, 5, "-"},
		{"all", []float64{1, 2}, false, 0, "$1.00, $2.00"},
		{"percent", []float64{0.5}, true, 3, "0.50%"},
		{"elided", []float64{1, 2, 3, 4, 5, 6}, false, 4, "$1.00, $2.00, …, $5.00, $6.00"},
		{"odd limit", []float64{1, 2, 3, 4, 5}, false, 3, "$1.00, $2.00, …, $5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatSeries(tt.values, tt.percent, tt.limit); got != tt.want {
				t.Errorf("FormatSeries = %q, want %q", got, tt.want)
			}
		})
	}
}

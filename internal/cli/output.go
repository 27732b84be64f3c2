package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/stockbot/internal/chart"
	"github.com/agbru/stockbot/internal/format"
	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/ui"
	"github.com/agbru/stockbot/internal/viewmodel"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// Quiet prints a single tab-separated line per result.
	Quiet bool
	// ErrWriter receives error reports. Nil means the result writer.
	ErrWriter io.Writer
}

func (c OutputConfig) errWriter(out io.Writer) io.Writer {
	if c.ErrWriter != nil {
		return c.ErrWriter
	}
	return out
}

// DisplayResult writes the results block for a settled request: the summary
// lines, a sparkline of the actual series and the comparison chart.
//
// Parameters:
//   - out: The output writer.
//   - req: The request the view belongs to.
//   - view: The projected view of the request.
//   - elapsed: Wall time of the workflow.
func DisplayResult(out io.Writer, req prediction.PredictionRequest, view viewmodel.View, elapsed time.Duration) {
	percent := view.Units == viewmodel.Percent
	label := func(name string) string {
		return fmt.Sprintf("  %s%-18s%s", ui.ColorBold(), name, ui.ColorReset())
	}

	fmt.Fprintf(out, "\n%s--- Prediction Result ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "%s%s%s%s (%s → %s)\n", label("Symbol:"), ui.ColorBlue(), view.Symbol, ui.ColorReset(), req.StartDate, req.EndDate)
	fmt.Fprintf(out, "%s%s\n", label("Model:"), view.Model)
	if view.Model == prediction.EchoState {
		fmt.Fprintf(out, "%s%g\n", label("Spectral radius:"), req.EffectiveSpectralRadius())
	}
	if view.HasModelResult {
		fmt.Fprintf(out, "%s%s%s%s\n", label("Error (MSE):"), ui.ColorYellow(), format.FormatMetric(view.ErrorMetric), ui.ColorReset())
	}
	if view.R2 != nil {
		fmt.Fprintf(out, "%s%s\n", label("R²:"), format.FormatMetric(*view.R2))
	}

	highlights := "Recent prices:"
	if percent {
		highlights = "Recent returns:"
	}
	if view.Model == prediction.EchoState {
		highlights = "Future prediction:"
	}
	fmt.Fprintf(out, "%s%s\n", label(highlights), format.FormatSeries(view.Highlights, percent, SeriesPreview))
	if view.Model != prediction.EchoState && len(view.Future) > 0 {
		fmt.Fprintf(out, "%s%s\n", label("Future prediction:"), format.FormatSeries(view.Future, false, SeriesPreview))
	}
	if len(view.Actual) > 0 {
		fmt.Fprintf(out, "%s%s%s%s\n", label("Trend:"), ui.ColorCyan(), chart.Sparkline(view.Actual), ui.ColorReset())
	}
	if elapsed > 0 {
		fmt.Fprintf(out, "%s%s%s%s\n", label("Time:"), ui.ColorGreen(), format.FormatExecutionDuration(elapsed), ui.ColorReset())
	}

	lines := FormatChart(req, view, ChartWidth, ChartRows)
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
}

// FormatChart renders the comparison chart of the actual and predicted
// series with its title, y-axis labels and legend. Both series start at the
// left edge and share one scale. It returns nil when there is nothing to
// plot.
func FormatChart(req prediction.PredictionRequest, view viewmodel.View, width, rows int) []string {
	lo, hi, ok := chart.Bounds(view.Actual, view.Predicted)
	if !ok || width <= 0 || rows <= 0 {
		return nil
	}
	percent := view.Units == viewmodel.Percent

	span := max(len(view.Actual), len(view.Predicted))
	canvas := chart.NewCanvas(width, rows, lo, hi, span)
	canvas.Plot(0, view.Actual)
	canvas.Plot(1, view.Predicted)
	body := canvas.Render(func(layer int, s string) string {
		return ui.SeriesColor(layer) + s + ui.ColorReset()
	})

	top, bottom := format.FormatValue(hi, percent), format.FormatValue(lo, percent)
	gutter := max(len(top), len(bottom))

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, ui.ColorBold()+chart.Title(view.Symbol, req.StartDate, req.EndDate, percent)+ui.ColorReset())
	for i, row := range body {
		axis := ""
		switch i {
		case 0:
			axis = top
		case len(body) - 1:
			axis = bottom
		}
		lines = append(lines, fmt.Sprintf("%*s ┤%s", gutter, axis, row))
	}
	lines = append(lines, fmt.Sprintf("%*s  %s■%s Actual  %s■%s Predicted",
		gutter, "", ui.SeriesColor(0), ui.ColorReset(), ui.SeriesColor(1), ui.ColorReset()))
	return lines
}

// FormatQuietResult formats a result as one tab-separated line suitable for
// scripting: symbol, model, error metric and the highlighted values.
func FormatQuietResult(view viewmodel.View) string {
	values := make([]string, len(view.Highlights))
	for i, v := range view.Highlights {
		values[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join([]string{
		view.Symbol,
		view.Model.Slug(),
		strconv.FormatFloat(view.ErrorMetric, 'f', -1, 64),
		strings.Join(values, " "),
	}, "\t")
}

// DisplayQuietResult writes FormatQuietResult followed by a newline.
func DisplayQuietResult(out io.Writer, view viewmodel.View) {
	fmt.Fprintln(out, FormatQuietResult(view))
}

// DisplayError writes a failed request's error. A nil state writes nothing.
func DisplayError(out io.Writer, e *status.ErrorState) {
	if e == nil {
		return
	}
	step := ""
	if e.Step != "" {
		step = fmt.Sprintf(" [%s]", e.Step)
	}
	fmt.Fprintf(out, "%s✗ Error%s: %s%s\n", ui.ColorRed(), step, e.Message, ui.ColorReset())
}

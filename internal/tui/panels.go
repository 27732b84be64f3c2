package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/stockbot/internal/chart"
	"github.com/agbru/stockbot/internal/format"
	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/viewmodel"
)

const highlightPreview = 5

// renderResults renders the results panel content. Nothing of a request is
// shown until its view has been displayable.
func (m Model) renderResults() string {
	if m.result == nil {
		switch {
		case m.snapshot.Status == status.Loading:
			return m.spinner.View() + " " + dimStyle.Render("Waiting for the back end...")
		case m.snapshot.Notice != "":
			return noticeStyle.Render(m.snapshot.Notice)
		default:
			return dimStyle.Render("Fill in the form and press enter to predict.")
		}
	}

	v := *m.result
	percent := v.Units == viewmodel.Percent
	row := func(label, value string) string {
		return labelStyle.Render(padLabel(label)) + value + "\n"
	}

	var b strings.Builder
	b.WriteString(row("Symbol", valueStyle.Render(v.Symbol)))
	b.WriteString(row("Model", valueStyle.Render(v.Model.String())))
	b.WriteString(row("Error (MSE)", valueStyle.Render(format.FormatMetric(v.ErrorMetric))))
	if v.R2 != nil {
		b.WriteString(row("R²", valueStyle.Render(format.FormatMetric(*v.R2))))
	}
	if v.Model == prediction.EchoState {
		b.WriteString(row("Future", futureStyle.Render(format.FormatSeries(v.Highlights, false, highlightPreview))))
	} else {
		label := "Recent prices"
		if percent {
			label = "Recent returns"
		}
		b.WriteString(row(label, actualStyle.Render(format.FormatSeries(v.Highlights, percent, highlightPreview))))
		b.WriteString(row("Future", futureStyle.Render(format.FormatSeries(v.Future, false, highlightPreview))))
	}
	if v.Notice != "" {
		b.WriteString(noticeStyle.Render(v.Notice))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderChart renders the comparison chart into width columns and rows
// plot rows, plus a title and a legend line.
func (m Model) renderChart(width, rows int) string {
	if m.result == nil {
		return dimStyle.Render("No prediction to chart yet.")
	}
	v := *m.result
	percent := v.Units == viewmodel.Percent

	lo, hi, ok := chart.Bounds(v.Actual, v.Predicted)
	if !ok {
		return dimStyle.Render("No data points.")
	}
	top, bottom := format.FormatValue(hi, percent), format.FormatValue(lo, percent)
	gutter := max(len(top), len(bottom))

	plotWidth := max(width-gutter-2, 1)
	canvas := chart.NewCanvas(plotWidth, rows, lo, hi, max(len(v.Actual), len(v.Predicted)))
	canvas.Plot(0, v.Actual)
	canvas.Plot(1, v.Predicted)
	body := canvas.Render(func(layer int, s string) string {
		if layer == 0 {
			return actualStyle.Render(s)
		}
		return predictedStyle.Render(s)
	})

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, titleStyle.Render(chart.Title(v.Symbol, m.request.StartDate, m.request.EndDate, percent)))
	for i, row := range body {
		axis := ""
		switch i {
		case 0:
			axis = top
		case len(body) - 1:
			axis = bottom
		}
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%*s ┤", gutter, axis))+row)
	}
	lines = append(lines, spaces(gutter+2)+actualStyle.Render("■ Actual")+"  "+predictedStyle.Render("■ Predicted"))
	return strings.Join(lines, "\n")
}

// renderToast renders the single status line under the chart.
func (m Model) renderToast() string {
	var parts []string
	if m.snapshot.Toast != "" {
		toast := toastStyle.Render(m.snapshot.Toast)
		if m.snapshot.Status == status.Loading {
			toast = m.spinner.View() + " " + toast
		}
		parts = append(parts, toast)
	}
	if m.snapshot.Notice != "" {
		parts = append(parts, noticeStyle.Render(m.snapshot.Notice))
	}
	return " " + strings.Join(parts, versionStyle.Render(" | "))
}

// renderErrorOverlay renders the blocking error notification centered on
// the screen.
func (m Model) renderErrorOverlay() string {
	e := m.snapshot.Error
	var b strings.Builder
	b.WriteString(overlayTitleStyle.Render("Prediction failed"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(min(60, max(m.width-12, 10))).Render(e.Message))
	if e.Step != "" {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("step: " + e.Step))
	}
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Press Enter or Esc to dismiss"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlayStyle.Render(b.String()))
}

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/stockbot/internal/config"
	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/validation"
)

type field int

const (
	fieldSymbol field = iota
	fieldStart
	fieldEnd
	fieldModel
	fieldSpectralRadius
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldSymbol:         "Symbol",
	fieldStart:          "Start date",
	fieldEnd:            "End date",
	fieldModel:          "Model",
	fieldSpectralRadius: "Spectral radius",
}

// FormModel is the request form. The model field is a selector; every other
// field is a text input. Values are sent as typed and validated on submit.
type FormModel struct {
	inputs   [fieldCount]textinput.Model
	model    prediction.ModelKind
	interval string
	focus    field
}

// NewFormModel creates a form seeded from cfg with the symbol focused.
func NewFormModel(cfg config.AppConfig) FormModel {
	f := FormModel{model: prediction.DefaultModel, interval: cfg.Interval}
	if m, err := prediction.ParseModel(cfg.Model); err == nil {
		f.model = m
	}

	seed := [fieldCount]string{
		fieldSymbol: cfg.Symbol,
		fieldStart:  cfg.StartDate,
		fieldEnd:    cfg.EndDate,
	}
	if cfg.SpectralRadius > 0 {
		seed[fieldSpectralRadius] = strconv.FormatFloat(cfg.SpectralRadius, 'f', -1, 64)
	}
	placeholders := [fieldCount]string{
		fieldSymbol:         "AAPL",
		fieldStart:          "YYYY-MM-DD",
		fieldEnd:            "YYYY-MM-DD",
		fieldSpectralRadius: strconv.FormatFloat(prediction.DefaultSpectralRadius, 'f', -1, 64),
	}

	for i := range f.inputs {
		if field(i) == fieldModel {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 24
		ti.Width = 16
		ti.Placeholder = placeholders[i]
		ti.SetValue(seed[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldSymbol].Focus()
	return f
}

// Focused returns the focused field.
func (f FormModel) Focused() field { return f.focus }

// Model returns the selected model.
func (f FormModel) Model() prediction.ModelKind { return f.model }

// FocusNext moves focus to the next field, wrapping around.
func (f *FormModel) FocusNext() tea.Cmd {
	return f.setFocus((f.focus + 1) % fieldCount)
}

// FocusPrev moves focus to the previous field, wrapping around.
func (f *FormModel) FocusPrev() tea.Cmd {
	return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

func (f *FormModel) setFocus(next field) tea.Cmd {
	if f.focus != fieldModel {
		f.inputs[f.focus].Blur()
	}
	f.focus = next
	if next == fieldModel {
		return nil
	}
	return f.inputs[next].Focus()
}

// CycleModel selects the next model, or the previous one when forward is
// false.
func (f *FormModel) CycleModel(forward bool) {
	if forward {
		f.model = f.model.Next()
		return
	}
	for i := 0; i < len(prediction.Models)-1; i++ {
		f.model = f.model.Next()
	}
}

// Raw returns the form content.
func (f FormModel) Raw() validation.RawInput {
	return validation.RawInput{
		Symbol:         f.inputs[fieldSymbol].Value(),
		StartDate:      f.inputs[fieldStart].Value(),
		EndDate:        f.inputs[fieldEnd].Value(),
		Interval:       f.interval,
		Model:          f.model.String(),
		SpectralRadius: f.inputs[fieldSpectralRadius].Value(),
	}
}

// Update forwards msg to the focused text input.
func (f FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	if f.focus == fieldModel {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// View renders the form rows.
func (f FormModel) View() string {
	var b strings.Builder
	for i := field(0); i < fieldCount; i++ {
		label := labelStyle
		marker := "  "
		if i == f.focus {
			label = focusedLabelStyle
			marker = focusedLabelStyle.Render("› ")
		}
		b.WriteString(marker)
		b.WriteString(label.Render(padLabel(fieldLabels[i])))
		if i == fieldModel {
			b.WriteString(dimStyle.Render("◀ ") + valueStyle.Render(f.model.String()) + dimStyle.Render(" ▶"))
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteByte('\n')
	}
	b.WriteString("  " + labelStyle.Render(padLabel("Interval")) + dimStyle.Render(f.interval))
	return b.String()
}

func padLabel(s string) string {
	const width = 17
	if len(s) >= width {
		return s
	}
	return s + spaces(width-len(s))
}

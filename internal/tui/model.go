package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/stockbot/internal/config"
	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/orchestration"
	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/sysmon"
	"github.com/agbru/stockbot/internal/validation"
	"github.com/agbru/stockbot/internal/viewmodel"
)

// Predictor is the part of the orchestrator the TUI drives.
// *orchestration.Orchestrator implements it.
type Predictor interface {
	Submit(ctx context.Context, raw validation.RawInput) (*orchestration.Run, error)
	View() viewmodel.View
	Status() *status.Controller
	Dismiss()
}

var _ Predictor = (*orchestration.Orchestrator)(nil)

// errStaleSubmit is returned for a submission a later one replaced before it
// reached the orchestrator.
var errStaleSubmit = errors.New("submission replaced before dispatch")

// Layout constants for the TUI.
const (
	headerHeight    = 1
	toastHeight     = 1
	footerHeight    = 1
	formPanelWidth  = 40
	topPanelHeight  = 7
	panelChrome     = 2 // border rows or columns around a panel
	chartTextRows   = 2 // title and legend
	minChartRows    = 3
	minResultsWidth = 20
)

// hostSampleInterval is the refresh period of the host usage readout.
const hostSampleInterval = time.Second

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// resultsWidth returns the content width of the results panel.
func (l LayoutManager) resultsWidth() int {
	return max(l.width-formPanelWidth-2*panelChrome-2, minResultsWidth)
}

// chartWidth returns the content width of the chart panel.
func (l LayoutManager) chartWidth() int {
	return max(l.width-panelChrome-2, 10)
}

// chartRows returns the number of plot rows of the chart panel.
func (l LayoutManager) chartRows() int {
	used := headerHeight + topPanelHeight + 2*panelChrome + chartTextRows + toastHeight + footerHeight
	return max(l.height-used, minChartRows)
}

// submitter serializes submissions so only the latest generation reaches the
// orchestrator, in order.
type submitter struct {
	mu     sync.Mutex
	latest atomic.Uint64
}

// Model is the root bubbletea model of the TUI.
type Model struct {
	header  HeaderModel
	form    FormModel
	spinner spinner.Model
	help    help.Model
	keymap  KeyMap

	LayoutManager

	predictor Predictor
	ctx       context.Context
	ref       *programRef
	sub       *submitter
	sample    sysmon.Sampler

	// generation increases with every submission. Messages carrying an
	// older generation are ignored.
	generation uint64
	request    prediction.PredictionRequest
	snapshot   status.Snapshot
	// result is the last displayable view of the current request.
	result   *viewmodel.View
	spinning bool
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context, p Predictor, cfg config.AppConfig, version string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = toastStyle

	return Model{
		header:    NewHeaderModel(version),
		form:      NewFormModel(cfg),
		spinner:   sp,
		help:      help.New(),
		keymap:    DefaultKeyMap(),
		predictor: p,
		ctx:       ctx,
		ref:       &programRef{},
		sub:       &submitter{},
		sample:    sysmon.Sample,
		snapshot:  p.Status().Snapshot(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, sampleHostCmd(m.ctx, m.sample, 0))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case StatusMsg:
		m.snapshot = msg.Snapshot
		m.header.SetStatus(msg.Snapshot.Status)
		m.refreshView()
		if msg.Snapshot.Status == status.Loading && !m.spinning {
			m.spinning = true
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if m.snapshot.Status != status.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hostStatsMsg:
		m.header.SetHost(msg.stats.String())
		return m, sampleHostCmd(m.ctx, m.sample, hostSampleInterval)

	case submittedMsg:
		if msg.generation != m.generation || msg.run == nil {
			// Validation failures arrive as a status transition.
			return m, nil
		}
		m.request = msg.run.Request()
		return m, waitCmd(msg.run, msg.generation, time.Now())

	case settledMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if !msg.outcome.Superseded() {
			m.header.SetElapsed(msg.elapsed)
		}
		m.refreshView()
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		return m, tea.Quit
	}

	// The error notification swallows every key until it is dismissed.
	if m.snapshot.Blocking {
		if key.Matches(msg, m.keymap.Dismiss) {
			return m, dismissCmd(m.predictor)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Submit):
		m.generation++
		m.sub.latest.Store(m.generation)
		return m, submitCmd(m.ctx, m.predictor, m.sub, m.form.Raw(), m.generation)
	case key.Matches(msg, m.keymap.NextField):
		return m, m.form.FocusNext()
	case key.Matches(msg, m.keymap.PrevField):
		return m, m.form.FocusPrev()
	}

	if m.form.Focused() == fieldModel {
		switch {
		case key.Matches(msg, m.keymap.NextModel):
			m.form.CycleModel(true)
		case key.Matches(msg, m.keymap.PrevModel):
			m.form.CycleModel(false)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// refreshView reprojects the view model. A displayable view is kept until
// its request stops being current or a new request starts loading.
func (m *Model) refreshView() {
	v := m.predictor.View()
	if v.IsDisplayable {
		m.result = &v
		return
	}
	if m.result == nil {
		return
	}
	if m.result.RequestID != v.RequestID || m.snapshot.Status == status.Loading || m.snapshot.Status == status.Error {
		m.result = nil
	}
}

// View renders the entire interface.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.snapshot.Blocking && m.snapshot.Error != nil {
		return m.renderErrorOverlay()
	}

	form := panelStyle.Width(formPanelWidth).Height(topPanelHeight).Render(m.form.View())
	results := panelStyle.Width(m.resultsWidth()).Height(topPanelHeight).Render(m.renderResults())
	top := lipgloss.JoinHorizontal(lipgloss.Top, form, results)
	chartPanel := panelStyle.Width(m.chartWidth()).Render(m.renderChart(m.chartWidth(), m.chartRows()))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		top,
		chartPanel,
		m.renderToast(),
		m.help.View(m.keymap),
	)
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, p Predictor, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by the app via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, p, cfg, version)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before any transition can be sent.
	model.ref.SetProgram(prog)
	unsubscribe := p.Status().Subscribe(&statusBridge{ref: model.ref})
	defer unsubscribe()

	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return apperrors.ExitErrorCanceled
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// submitCmd submits raw unless a later generation has been requested. It
// runs outside the event loop because status observers deliver into it.
func submitCmd(ctx context.Context, p Predictor, sub *submitter, raw validation.RawInput, gen uint64) tea.Cmd {
	return func() tea.Msg {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		if sub.latest.Load() != gen {
			return submittedMsg{generation: gen, err: errStaleSubmit}
		}
		run, err := p.Submit(ctx, raw)
		return submittedMsg{generation: gen, run: run, err: err}
	}
}

// waitCmd waits for run to settle.
func waitCmd(run *orchestration.Run, gen uint64, start time.Time) tea.Cmd {
	return func() tea.Msg {
		out := run.Wait()
		return settledMsg{generation: gen, outcome: out, elapsed: time.Since(start)}
	}
}

// sampleHostCmd reads host usage after delay.
func sampleHostCmd(ctx context.Context, sample sysmon.Sampler, delay time.Duration) tea.Cmd {
	read := func() tea.Msg { return hostStatsMsg{stats: sample(ctx)} }
	if delay <= 0 {
		return read
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return read() })
}

// dismissCmd acknowledges the error notification outside the event loop.
func dismissCmd(p Predictor) tea.Cmd {
	return func() tea.Msg {
		p.Dismiss()
		return nil
	}
}

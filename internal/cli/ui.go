package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const (
	// SpinnerRefreshRate is the frame interval of the loading spinner.
	SpinnerRefreshRate = 120 * time.Millisecond
	// ChartWidth is the width in cells of the results chart.
	ChartWidth = 60
	// ChartRows is the height in rows of the results chart.
	ChartRows = 8
	// SeriesPreview bounds how many values of a series are listed inline.
	SeriesPreview = 10
)

// Spinner abstracts the terminal spinner so the status presenter can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

// newSpinner builds the spinner used by StatusPresenter. The spinner stays
// silent when out is not a terminal.
var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

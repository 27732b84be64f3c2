// Package viewmodel reconciles asynchronously arriving results into one
// consistent, read-only View for the request that is currently in charge.
package viewmodel

import (
	"sync"

	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/status"
)

// Units tells presentation how to label series values.
type Units int

const (
	// Dollars is a price series.
	Dollars Units = iota
	// Percent is a daily return series.
	Percent
)

// String returns the unit symbol.
func (u Units) String() string {
	if u == Percent {
		return "%"
	}
	return "$"
}

// View is a consistent projection for one request. Slices are copies.
type View struct {
	RequestID   prediction.RequestID
	Model       prediction.ModelKind
	Symbol      string
	Actual      prediction.Series
	Predicted   prediction.Series
	Future      prediction.Series
	ErrorMetric float64
	R2          *float64
	Units       Units
	// Highlights are the values listed next to the chart: the future
	// prediction for echo state runs, the last actual prices otherwise.
	Highlights prediction.Series
	Notice     string
	// HasModelResult is true once the model branch committed.
	HasModelResult bool
	// IsDisplayable is true only for a successful request whose model
	// result and future prediction both arrived.
	IsDisplayable bool
}

// Store owns the per-request data. Every write names its request and is
// rejected unless that request is current.
type Store struct {
	mu      sync.RWMutex
	current prediction.RequestID
	request prediction.PredictionRequest

	actual    prediction.Series
	model     *modelEntry
	future    *futureEntry
	notice    string
	hasActual bool
}

type modelEntry struct {
	owner  prediction.RequestID
	result prediction.ModelRunResult
}

type futureEntry struct {
	owner  prediction.RequestID
	series prediction.Series
}

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{} }

// Reset makes req current and discards everything stored for older requests.
func (s *Store) Reset(req prediction.PredictionRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = req.ID
	s.request = req
	s.actual = nil
	s.hasActual = false
	s.model = nil
	s.future = nil
	s.notice = ""
}

// Current returns the request the store accepts writes for.
func (s *Store) Current() prediction.RequestID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetActual stores the raw series shown for echo state runs.
func (s *Store) SetActual(id prediction.RequestID, series prediction.Series) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.current {
		return false
	}
	s.actual = series.Clone()
	s.hasActual = true
	return true
}

// SetModelResult stores the model branch output. For non-echo models the
// result's actual series replaces the raw one.
func (s *Store) SetModelResult(id prediction.RequestID, res prediction.ModelRunResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.current {
		return false
	}
	res.Actual = res.Actual.Clone()
	res.Predicted = res.Predicted.Clone()
	s.model = &modelEntry{owner: id, result: res}
	if s.request.Model != prediction.EchoState {
		s.actual = res.Actual
		s.hasActual = true
	}
	return true
}

// SetFuture stores the future prediction.
func (s *Store) SetFuture(id prediction.RequestID, series prediction.Series) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.current {
		return false
	}
	s.future = &futureEntry{owner: id, series: series.Clone()}
	return true
}

// SetNotice stores a non-fatal message for the request.
func (s *Store) SetNotice(id prediction.RequestID, notice string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.current {
		return false
	}
	s.notice = notice
	return true
}

// Project builds the View for the current request under the given status.
func (s *Store) Project(st status.Status) View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		RequestID: s.current,
		Model:     s.request.Model,
		Symbol:    s.request.Symbol,
		Notice:    s.notice,
	}
	if s.request.Model == prediction.RandomForest {
		v.Units = Percent
	}

	actual := s.actual
	if s.request.Model == prediction.EchoState {
		actual = actual.First(prediction.EchoDisplayPoints)
	} else {
		actual = actual.Clone()
	}
	if s.hasActual {
		v.Actual = actual
	}

	if s.model != nil && s.model.owner == s.current {
		v.HasModelResult = true
		v.Predicted = s.model.result.Predicted.Clone()
		v.ErrorMetric = s.model.result.ErrorMetric
		if s.model.result.R2 != nil {
			r2 := *s.model.result.R2
			v.R2 = &r2
		}
	}
	hasFuture := s.future != nil && s.future.owner == s.current
	if hasFuture {
		v.Future = s.future.series.Clone()
	}

	if s.request.Model == prediction.EchoState {
		v.Highlights = v.Future.Clone()
	} else {
		v.Highlights = s.actual.Last(prediction.HighlightPoints)
	}

	v.IsDisplayable = st == status.Success &&
		v.HasModelResult && len(v.Predicted) > 0 &&
		hasFuture && len(v.Future) > 0
	return v
}

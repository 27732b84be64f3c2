package prediction

import "github.com/google/uuid"

const (
	// DefaultInterval is the bar interval sent to the back end.
	DefaultInterval = "1d"
	// DefaultSpectralRadius is used when no positive spectral radius is given.
	DefaultSpectralRadius = 1.2
	// FutureHistoryMin is the shortest raw series that can be extrapolated.
	FutureHistoryMin = 100
	// EchoHistoryMin is the shortest raw series the echo state model accepts.
	EchoHistoryMin = 200
	// EchoDisplayPoints bounds the actual series shown next to echo predictions.
	EchoDisplayPoints = 200
	// HighlightPoints is how many trailing actual prices non-echo models show.
	HighlightPoints = 5
)

// Series is an ordered sequence of prices. The index is the day offset from
// the start of the requested range.
type Series []float64

// Clone returns an independent copy of s. A nil series stays nil.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Last returns the trailing n points of s, or all of s when it is shorter.
func (s Series) Last(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if len(s) <= n {
		return s.Clone()
	}
	return s[len(s)-n:].Clone()
}

// First returns the leading n points of s, or all of s when it is shorter.
func (s Series) First(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if len(s) <= n {
		return s.Clone()
	}
	return s[:n].Clone()
}

// RequestID identifies one submission.
type RequestID = uuid.UUID

// NewRequestID returns a fresh random request identifier.
func NewRequestID() RequestID { return uuid.New() }

// PredictionRequest is a validated, normalized submission. It is immutable
// once submitted.
type PredictionRequest struct {
	ID        RequestID
	Symbol    string
	StartDate string
	EndDate   string
	// Interval is accepted for display but the back end always receives
	// DefaultInterval.
	Interval string
	Model    ModelKind
	// SpectralRadius is used by the echo state and future calls. Zero or
	// negative means unset.
	SpectralRadius float64
}

// EffectiveSpectralRadius returns the spectral radius to send to the back end.
func (r PredictionRequest) EffectiveSpectralRadius() float64 {
	return EffectiveSpectralRadius(r.SpectralRadius)
}

// EffectiveSpectralRadius maps an unset radius to DefaultSpectralRadius.
func EffectiveSpectralRadius(sr float64) float64 {
	if sr <= 0 {
		return DefaultSpectralRadius
	}
	return sr
}

// ModelRunResult is the output of one model call.
type ModelRunResult struct {
	// Actual is the back end's view of the observed prices for the test
	// window. It is empty for echo state runs, where the raw series is used.
	Actual    Series
	Predicted Series
	// ErrorMetric is the mean squared error reported by the back end.
	ErrorMetric float64
	// R2 is only reported by the random forest model.
	R2 *float64
}

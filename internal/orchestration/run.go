package orchestration

import (
	"errors"

	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/status"
)

// ErrSuperseded is reported by a run that a newer submission replaced.
var ErrSuperseded = errors.New("superseded by a newer request")

// Outcome is the settled result of one submitted run.
type Outcome struct {
	RequestID prediction.RequestID
	// Status is Success or Error for a run that committed, and Idle for a
	// run that was superseded before it could commit.
	Status status.Status
	// Step is the workflow step that failed, empty on success.
	Step string
	// Err is the error that moved the run to Error, or ErrSuperseded.
	Err error
	// Notice is the non-fatal message recorded for the run, if any.
	Notice string
}

// Superseded reports whether a newer submission replaced this run.
func (o Outcome) Superseded() bool { return errors.Is(o.Err, ErrSuperseded) }

// Run is a handle on one accepted submission.
type Run struct {
	req     prediction.PredictionRequest
	done    chan struct{}
	outcome Outcome
}

func newRun(req prediction.PredictionRequest) *Run {
	return &Run{req: req, done: make(chan struct{})}
}

// ID returns the request identity of the run.
func (r *Run) ID() prediction.RequestID { return r.req.ID }

// Request returns the validated request the run executes.
func (r *Run) Request() prediction.PredictionRequest { return r.req }

// Done is closed once the run has settled.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run settles and returns its outcome.
func (r *Run) Wait() Outcome {
	<-r.done
	return r.outcome
}

// Outcome returns the settled outcome. Before Done is closed it returns the
// zero Outcome.
func (r *Run) Outcome() Outcome {
	select {
	case <-r.done:
		return r.outcome
	default:
		return Outcome{}
	}
}

func (r *Run) finish(o Outcome) {
	r.outcome = o
	close(r.done)
}

package cli

import (
	"context"
	"io"
	"time"

	"github.com/agbru/stockbot/internal/orchestration"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/validation"
	"github.com/agbru/stockbot/internal/viewmodel"
)

// Predictor is the part of the orchestrator the line-oriented front ends
// drive. *orchestration.Orchestrator implements it.
type Predictor interface {
	Submit(ctx context.Context, raw validation.RawInput) (*orchestration.Run, error)
	View() viewmodel.View
	Status() *status.Controller
	Dismiss()
}

var _ Predictor = (*orchestration.Orchestrator)(nil)

// RunPrediction submits raw, waits for the request to settle and writes the
// result or the error.
//
// Parameters:
//   - ctx: Cancelling it cancels the request's remote calls.
//   - p: The predictor to submit to.
//   - raw: The request fields as given on the command line.
//   - out: Destination of the results.
//   - cfg: Output configuration.
//
// Returns:
//   - error: The validation or workflow error, nil on success.
func RunPrediction(ctx context.Context, p Predictor, raw validation.RawInput, out io.Writer, cfg OutputConfig) error {
	presenter := NewStatusPresenter(out, cfg.Quiet)
	unsubscribe := p.Status().Subscribe(presenter)
	defer unsubscribe()
	defer presenter.Close()

	return predict(ctx, p, presenter, raw, out, cfg)
}

// predict runs one request through p. The presenter, already subscribed, is
// closed before the result is written so the spinner does not overwrite it.
func predict(ctx context.Context, p Predictor, presenter *StatusPresenter, raw validation.RawInput, out io.Writer, cfg OutputConfig) error {
	start := time.Now()
	run, err := p.Submit(ctx, raw)
	if err != nil {
		presenter.Close()
		DisplayError(cfg.errWriter(out), p.Status().Snapshot().Error)
		return err
	}
	outcome := run.Wait()
	elapsed := time.Since(start)
	presenter.Close()

	switch {
	case outcome.Superseded():
		return outcome.Err
	case outcome.Err != nil:
		snap := p.Status().Snapshot()
		errState := snap.Error
		if snap.RequestID != run.ID() || errState == nil {
			errState = &status.ErrorState{Step: outcome.Step, Message: outcome.Err.Error()}
		}
		DisplayError(cfg.errWriter(out), errState)
		return outcome.Err
	}

	view := p.View()
	if view.RequestID != run.ID() {
		return orchestration.ErrSuperseded
	}
	if cfg.Quiet {
		DisplayQuietResult(out, view)
		return nil
	}
	DisplayResult(out, run.Request(), view, elapsed)
	return nil
}

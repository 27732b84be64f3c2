package orchestration

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/gateway"
	"github.com/agbru/stockbot/internal/logging"
	"github.com/agbru/stockbot/internal/metrics"
	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/validation"
	"github.com/agbru/stockbot/internal/viewmodel"
)

// TracerName is the instrumentation scope of workflow spans.
const TracerName = "stockbot/orchestration"

// StepValidate tags errors raised before a request is accepted.
const StepValidate = "validate"

// Options configures an Orchestrator. The zero value is usable.
type Options struct {
	Logger         logging.Logger
	TracerProvider trace.TracerProvider
}

// Orchestrator drives prediction workflows. At most one request is current
// at any time. Results of any other request are dropped at write time.
//
// The orchestrator holds its lock while it calls into the status
// controller, so status observers must not call Submit synchronously.
type Orchestrator struct {
	gateway Gateway
	status  *status.Controller
	store   *viewmodel.Store
	logger  logging.Logger
	tracer  trace.Tracer

	mu      sync.Mutex
	current prediction.RequestID
	cancel  context.CancelFunc

	wg sync.WaitGroup
}

// New creates an Orchestrator that reports through ctrl and store.
func New(gw Gateway, ctrl *status.Controller, store *viewmodel.Store, opts Options) *Orchestrator {
	o := &Orchestrator{
		gateway: gw,
		status:  ctrl,
		store:   store,
		logger:  opts.Logger,
		tracer:  otel.Tracer(TracerName),
	}
	if o.logger == nil {
		o.logger = logging.Nop()
	}
	if opts.TracerProvider != nil {
		o.tracer = opts.TracerProvider.Tracer(TracerName)
	}
	return o
}

// Status returns the status controller the orchestrator reports to.
func (o *Orchestrator) Status() *status.Controller { return o.status }

// View projects the view model against the current status.
func (o *Orchestrator) View() viewmodel.View {
	return o.store.Project(o.status.Snapshot().Status)
}

// Dismiss acknowledges the current notification.
func (o *Orchestrator) Dismiss() { o.status.Dismiss() }

// Submit validates raw and, when it is valid, starts a workflow for it. The
// new request supersedes any run still in flight.
//
// A validation failure moves the status to Error under StepValidate, issues
// no remote call and is returned as the error. It also supersedes the
// previous run, since the user has moved on from it.
//
// Parameters:
//   - ctx: Parent context of the run. Cancelling it cancels the run's calls.
//   - raw: The form values as entered.
//
// Returns:
//   - *Run: A handle to wait on the run's outcome.
//   - error: The validation error, if any.
func (o *Orchestrator) Submit(ctx context.Context, raw validation.RawInput) (*Run, error) {
	req, err := validation.Validate(raw)
	if err != nil {
		o.reject(err)
		return nil, err
	}
	req.ID = prediction.NewRequestID()

	runCtx, cancel := context.WithCancel(ctx)
	run := newRun(req)

	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	o.current = req.ID
	o.cancel = cancel
	o.store.Reset(req)
	o.status.BeginRequest(req.ID)
	o.mu.Unlock()

	o.logger.Info("prediction submitted",
		logging.String("request_id", req.ID.String()),
		logging.String("symbol", req.Symbol),
		logging.String("model", req.Model.Slug()),
		logging.String("start", req.StartDate),
		logging.String("end", req.EndDate))

	o.wg.Add(1)
	go o.execute(runCtx, cancel, run)
	return run, nil
}

// Shutdown cancels the current run and waits for every started run to
// settle.
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.mu.Unlock()
	o.wg.Wait()
}

func (o *Orchestrator) reject(err error) {
	msg := err.Error()
	var valErr apperrors.ValidationError
	if errors.As(err, &valErr) {
		msg = valErr.Message
		if valErr.Kind == apperrors.MissingField {
			msg = MissingFieldsHint
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.current = prediction.RequestID{}
	o.store.Reset(prediction.PredictionRequest{})
	o.status.Reject(StepValidate, msg)
	o.logger.Warn("prediction rejected", logging.Err(err))
}

func (o *Orchestrator) execute(ctx context.Context, cancel context.CancelFunc, run *Run) {
	defer o.wg.Done()
	defer cancel()

	req := run.req
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "workflow",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stockbot.request_id", req.ID.String()),
			attribute.String("stockbot.symbol", req.Symbol),
			attribute.String("stockbot.model", req.Model.Slug()),
		),
	)
	defer span.End()

	out := o.workflow(ctx, req)

	outcome := metrics.OutcomeSuccess
	switch {
	case out.Superseded():
		outcome = metrics.OutcomeSuperseded
		span.SetAttributes(attribute.Bool("stockbot.superseded", true))
	case out.Err != nil:
		outcome = metrics.OutcomeError
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Error())
	default:
		span.SetStatus(codes.Ok, "")
	}
	elapsed := time.Since(start)
	metrics.ObserveWorkflow(req.Model.Slug(), elapsed, outcome)
	o.logger.Info("workflow settled",
		logging.String("request_id", req.ID.String()),
		logging.String("model", req.Model.Slug()),
		logging.String("outcome", outcome),
		logging.Duration("elapsed", elapsed))

	run.finish(out)
}

type modelOutcome struct {
	result prediction.ModelRunResult
	err    error
}

type futureOutcome struct {
	series prediction.Series
	err    error
}

// workflow runs the fetch and both branches for req. Blank required fields
// never get here: they are reported with MissingFieldsHint by reject, so a
// FetchSeries failure always surfaces the transport text.
func (o *Orchestrator) workflow(ctx context.Context, req prediction.PredictionRequest) Outcome {
	raw, err := o.gateway.FetchSeries(ctx, req)
	if err != nil {
		return o.fail(req.ID, gateway.OpFetchSeries, err.Error(), err)
	}

	// The branches are pointless once a newer request took over.
	if !o.write(req.ID, gateway.OpFetchSeries, func() {
		if req.Model == prediction.EchoState {
			o.store.SetActual(req.ID, raw)
		}
	}) {
		return superseded(req.ID)
	}

	runner, err := runnerFor(req.Model)
	if err != nil {
		return o.fail(req.ID, StepValidate, err.Error(), err)
	}

	var (
		g      errgroup.Group
		model  modelOutcome
		future futureOutcome
	)
	g.Go(func() error {
		future = o.forecast(ctx, req, raw)
		return nil
	})
	g.Go(func() error {
		res, err := runner.run(ctx, o.gateway, req, raw)
		model = modelOutcome{result: res, err: err}
		return nil
	})
	_ = g.Wait()

	return o.join(req, runner.step, model, future)
}

func (o *Orchestrator) forecast(ctx context.Context, req prediction.PredictionRequest, raw prediction.Series) futureOutcome {
	if len(raw) < prediction.FutureHistoryMin {
		return futureOutcome{err: apperrors.DomainPolicyError{
			Step:     gateway.OpForecastFuture,
			Required: prediction.FutureHistoryMin,
			Got:      len(raw),
			Message:  MsgFutureHistory,
		}}
	}
	series, err := o.gateway.ForecastFuture(ctx, raw, req.EffectiveSpectralRadius())
	return futureOutcome{series: series, err: err}
}

// join commits both branch outcomes for req in one critical section. A model
// failure takes precedence over a future failure. Insufficient history for
// the forecast is a notice, not a failure.
func (o *Orchestrator) join(req prediction.PredictionRequest, step string, model modelOutcome, future futureOutcome) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != req.ID {
		o.dropStale(req.ID, step)
		return superseded(req.ID)
	}

	out := Outcome{RequestID: req.ID}
	if model.err == nil {
		o.store.SetModelResult(req.ID, model.result)
	}

	futureFailed := false
	var policy apperrors.DomainPolicyError
	switch {
	case future.err == nil:
		o.store.SetFuture(req.ID, future.series)
	case errors.As(future.err, &policy):
		out.Notice = policy.Message
		o.store.SetNotice(req.ID, out.Notice)
		o.status.SetNotice(req.ID, out.Notice)
	default:
		futureFailed = true
	}

	switch {
	case model.err != nil:
		out.Status, out.Step, out.Err = status.Error, step, model.err
	case futureFailed:
		out.Status, out.Step, out.Err = status.Error, gateway.OpForecastFuture, future.err
	default:
		out.Status = status.Success
		o.status.Succeed(req.ID)
		return out
	}
	o.status.Fail(req.ID, out.Step, stepMessage(out.Step, out.Err))
	return out
}

// fail moves req's workflow to Error with msg, unless req is stale.
func (o *Orchestrator) fail(id prediction.RequestID, step, msg string, err error) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != id {
		o.dropStale(id, step)
		return superseded(id)
	}
	o.status.Fail(id, step, msg)
	return Outcome{RequestID: id, Status: status.Error, Step: step, Err: err}
}

// write runs fn when id is still current and reports whether it ran.
func (o *Orchestrator) write(id prediction.RequestID, step string, fn func()) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != id {
		o.dropStale(id, step)
		return false
	}
	fn()
	return true
}

func (o *Orchestrator) dropStale(id prediction.RequestID, step string) {
	metrics.IncStaleResult(step)
	o.logger.Debug("dropping stale result",
		logging.String("request_id", id.String()),
		logging.String("step", step))
}

func superseded(id prediction.RequestID) Outcome {
	return Outcome{RequestID: id, Status: status.Idle, Err: ErrSuperseded}
}

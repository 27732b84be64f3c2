package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/logging"
	"github.com/agbru/stockbot/internal/metrics"
	"github.com/agbru/stockbot/internal/prediction"
)

// TracerName is the instrumentation scope of gateway spans.
const TracerName = "stockbot/gateway"

// maxErrorBody bounds how much of a failed response is kept for logging.
const maxErrorBody = 512

// Client calls the prediction back end.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     logging.Logger
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracerProvider sets the provider gateway spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(TracerName) }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logging.Nop(),
		tracer:     otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSeries returns the raw closing-price series for the request's symbol
// and date range. The interval is always DefaultInterval.
func (c *Client) FetchSeries(ctx context.Context, req prediction.PredictionRequest) (prediction.Series, error) {
	payload := grabDataRequest{
		Symbol:    req.Symbol,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Intervals: prediction.DefaultInterval,
	}
	var resp resultResponse
	if err := c.call(ctx, OpFetchSeries, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, malformed(OpFetchSeries, errors.New(`missing "result"`))
	}
	return prediction.Series(*resp.Result), nil
}

// RunArima runs the ARIMA model.
func (c *Client) RunArima(ctx context.Context, req prediction.PredictionRequest) (prediction.ModelRunResult, error) {
	return c.runModel(ctx, OpRunArima, req)
}

// RunLinearRegression runs the linear regression model.
func (c *Client) RunLinearRegression(ctx context.Context, req prediction.PredictionRequest) (prediction.ModelRunResult, error) {
	return c.runModel(ctx, OpRunLinearRegression, req)
}

// RunRandomForest runs the random forest model. Its series are daily returns.
func (c *Client) RunRandomForest(ctx context.Context, req prediction.PredictionRequest) (prediction.ModelRunResult, error) {
	return c.runModel(ctx, OpRunRandomForest, req)
}

func (c *Client) runModel(ctx context.Context, op string, req prediction.PredictionRequest) (prediction.ModelRunResult, error) {
	payload := modelRequest{
		StockSymbol:     req.Symbol,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Interval:        prediction.DefaultInterval,
		SplitPercentage: SplitPercentage,
	}
	var resp modelResponse
	if err := c.call(ctx, op, payload, &resp); err != nil {
		return prediction.ModelRunResult{}, err
	}
	if resp.Predictions == nil {
		return prediction.ModelRunResult{}, malformed(op, errors.New(`missing "predictions"`))
	}
	if resp.MSE == nil {
		return prediction.ModelRunResult{}, malformed(op, errors.New(`missing "mse"`))
	}
	actual := resp.Expected
	if op == OpRunRandomForest {
		actual = resp.ActualValues
	}
	return prediction.ModelRunResult{
		Actual:      prediction.Series(actual),
		Predicted:   prediction.Series(*resp.Predictions),
		ErrorMetric: *resp.MSE,
		R2:          resp.R2,
	}, nil
}

// RunEchoState runs the echo state network over data. The first row of the
// returned predictions is used.
func (c *Client) RunEchoState(ctx context.Context, data prediction.Series, sr float64) (prediction.ModelRunResult, error) {
	var resp echoResponse
	payload := seriesRequest{Data: data, SR: prediction.EffectiveSpectralRadius(sr)}
	if err := c.call(ctx, OpRunEchoState, payload, &resp); err != nil {
		return prediction.ModelRunResult{}, err
	}
	if len(resp.Predictions) == 0 {
		return prediction.ModelRunResult{}, malformed(OpRunEchoState, errors.New("empty predictions"))
	}
	if resp.MSE == nil {
		return prediction.ModelRunResult{}, malformed(OpRunEchoState, errors.New(`missing "mse"`))
	}
	return prediction.ModelRunResult{
		Predicted:   prediction.Series(resp.Predictions[0]),
		ErrorMetric: *resp.MSE,
	}, nil
}

// ForecastFuture extrapolates data a few days past its end. An unset
// spectral radius defaults to 1.2.
func (c *Client) ForecastFuture(ctx context.Context, data prediction.Series, sr float64) (prediction.Series, error) {
	var resp resultResponse
	payload := seriesRequest{Data: data, SR: prediction.EffectiveSpectralRadius(sr)}
	if err := c.call(ctx, OpForecastFuture, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, malformed(OpForecastFuture, errors.New(`missing "result"`))
	}
	return prediction.Series(*resp.Result), nil
}

// call performs one POST and decodes the JSON response into out.
func (c *Client) call(ctx context.Context, op string, payload, out any) (err error) {
	start := time.Now()
	endpoint := c.baseURL + "/" + op

	ctx, span := c.tracer.Start(ctx, "POST /"+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.method", op),
			attribute.String("http.url", endpoint),
		),
	)
	statusCode := 0
	defer func() {
		elapsed := time.Since(start)
		metrics.ObserveGatewayCall(op, elapsed, err)
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Debug("gateway call failed",
				logging.String("op", op), logging.Int("status", statusCode),
				logging.Duration("elapsed", elapsed), logging.Err(err))
		} else {
			span.SetStatus(codes.Ok, "")
			c.logger.Debug("gateway call succeeded",
				logging.String("op", op), logging.Int("status", statusCode),
				logging.Duration("elapsed", elapsed))
		}
		span.End()
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.GatewayError{Op: op, Kind: apperrors.MalformedBody, Err: fmt.Errorf("encode request: %w", err)}
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return apperrors.GatewayError{Op: op, Kind: apperrors.NetworkFailure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(callCtx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = apperrors.TimeoutError{Operation: op, Limit: c.timeout}
		}
		return apperrors.GatewayError{Op: op, Kind: apperrors.NetworkFailure, Err: err}
	}
	defer resp.Body.Close()
	statusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperrors.GatewayError{
			Op:         op,
			Kind:       apperrors.Non2xxStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", bytes.TrimSpace(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return apperrors.GatewayError{Op: op, Kind: apperrors.NetworkFailure, Err: apperrors.TimeoutError{Operation: op, Limit: c.timeout}}
		}
		return malformed(op, fmt.Errorf("decode response: %w", err))
	}
	if n := seriesLen(out); n >= 0 {
		span.SetAttributes(attribute.Int("stockbot.series_length", n))
	}
	return nil
}

func seriesLen(out any) int {
	switch v := out.(type) {
	case *resultResponse:
		if v.Result != nil {
			return len(*v.Result)
		}
	case *modelResponse:
		if v.Predictions != nil {
			return len(*v.Predictions)
		}
	case *echoResponse:
		if len(v.Predictions) > 0 {
			return len(v.Predictions[0])
		}
	}
	return -1
}

func malformed(op string, err error) error {
	return apperrors.GatewayError{Op: op, Kind: apperrors.MalformedBody, Err: err}
}

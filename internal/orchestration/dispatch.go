package orchestration

import (
	"context"
	"fmt"

	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/gateway"
	"github.com/agbru/stockbot/internal/prediction"
)

// modelRunner issues the model-specific call for one ModelKind.
type modelRunner struct {
	// step names the call in error messages and metrics.
	step string
	run  func(ctx context.Context, gw Gateway, req prediction.PredictionRequest, raw prediction.Series) (prediction.ModelRunResult, error)
}

// Insufficient-history messages.
const (
	MsgEchoHistory   = "insufficient history for this model"
	MsgFutureHistory = "Ensure the data being passed has at least 100 items."
)

// MissingFieldsHint replaces a transport error when a required field was left
// blank, since the blank field is the likely cause.
const MissingFieldsHint = "Ensure that all input fields have valid content."

// runners maps every ModelKind to its call. It must stay total over
// prediction.Models.
var runners = map[prediction.ModelKind]modelRunner{
	prediction.Arima: {
		step: gateway.OpRunArima,
		run: func(ctx context.Context, gw Gateway, req prediction.PredictionRequest, _ prediction.Series) (prediction.ModelRunResult, error) {
			return gw.RunArima(ctx, req)
		},
	},
	prediction.LinearRegression: {
		step: gateway.OpRunLinearRegression,
		run: func(ctx context.Context, gw Gateway, req prediction.PredictionRequest, _ prediction.Series) (prediction.ModelRunResult, error) {
			return gw.RunLinearRegression(ctx, req)
		},
	},
	prediction.RandomForest: {
		step: gateway.OpRunRandomForest,
		run: func(ctx context.Context, gw Gateway, req prediction.PredictionRequest, _ prediction.Series) (prediction.ModelRunResult, error) {
			return gw.RunRandomForest(ctx, req)
		},
	},
	prediction.EchoState: {
		step: gateway.OpRunEchoState,
		run: func(ctx context.Context, gw Gateway, req prediction.PredictionRequest, raw prediction.Series) (prediction.ModelRunResult, error) {
			if len(raw) < prediction.EchoHistoryMin {
				return prediction.ModelRunResult{}, apperrors.DomainPolicyError{
					Step:     gateway.OpRunEchoState,
					Required: prediction.EchoHistoryMin,
					Got:      len(raw),
					Message:  MsgEchoHistory,
				}
			}
			return gw.RunEchoState(ctx, raw, req.EffectiveSpectralRadius())
		},
	},
}

// runnerFor returns the runner for m.
func runnerFor(m prediction.ModelKind) (modelRunner, error) {
	r, ok := runners[m]
	if !ok {
		return modelRunner{}, apperrors.ValidationError{
			Field:   "model",
			Kind:    apperrors.Malformed,
			Message: fmt.Sprintf("no runner for model %v", m),
		}
	}
	return r, nil
}

// stepMessage formats a failure of step for the error notification.
func stepMessage(step string, err error) string {
	return fmt.Sprintf("From %s: %v", step, err)
}

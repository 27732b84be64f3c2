//go:generate mockgen -source=interfaces.go -destination=mocks/mock_gateway.go -package=mocks

package orchestration

import (
	"context"

	"github.com/agbru/stockbot/internal/prediction"
)

// Gateway is the remote prediction API as seen by the workflow. Each method
// issues exactly one call and never retries. *gateway.Client implements it.
type Gateway interface {
	// FetchSeries returns the raw closing-price series for the request.
	FetchSeries(ctx context.Context, req prediction.PredictionRequest) (prediction.Series, error)
	// RunArima trains and evaluates the ARIMA model.
	RunArima(ctx context.Context, req prediction.PredictionRequest) (prediction.ModelRunResult, error)
	// RunLinearRegression trains and evaluates the linear regression model.
	RunLinearRegression(ctx context.Context, req prediction.PredictionRequest) (prediction.ModelRunResult, error)
	// RunRandomForest trains and evaluates the random forest model on daily
	// returns.
	RunRandomForest(ctx context.Context, req prediction.PredictionRequest) (prediction.ModelRunResult, error)
	// RunEchoState runs the echo state network over an already fetched series.
	RunEchoState(ctx context.Context, data prediction.Series, sr float64) (prediction.ModelRunResult, error)
	// ForecastFuture extrapolates the series past its last point.
	ForecastFuture(ctx context.Context, data prediction.Series, sr float64) (prediction.Series, error)
}

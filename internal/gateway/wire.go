package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/agbru/stockbot/internal/prediction"
)

// Operation names double as endpoint paths and as the step names shown to
// users.
const (
	OpFetchSeries         = "grab_data"
	OpRunArima            = "run_arima"
	OpRunLinearRegression = "run_linear_regression"
	OpRunRandomForest     = "run_rf"
	OpRunEchoState        = "run_echo"
	OpForecastFuture      = "future_pred"
)

// SplitPercentage is the train/test split sent to every model call. The back
// end expects it as a string.
const SplitPercentage = ".66"

type grabDataRequest struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Intervals string `json:"intervals"`
}

type resultResponse struct {
	Result *flexSeries `json:"result"`
}

type modelRequest struct {
	StockSymbol     string `json:"stock_symbol"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Interval        string `json:"interval"`
	SplitPercentage string `json:"split_percentage"`
}

type modelResponse struct {
	Predictions  *flexSeries `json:"predictions"`
	Expected     flexSeries  `json:"expected"`
	ActualValues flexSeries  `json:"actual_values"`
	MSE          *float64    `json:"mse"`
	R2           *float64    `json:"r2"`
}

type seriesRequest struct {
	Data prediction.Series `json:"data"`
	SR   float64           `json:"sr"`
}

type echoResponse struct {
	Predictions []flexSeries `json:"predictions"`
	MSE         *float64     `json:"mse"`
}

// flexSeries decodes a list whose elements are numbers or single-element
// number lists. Some models return forecasts wrapped one per row.
type flexSeries prediction.Series

func (f *flexSeries) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(flexSeries, 0, len(raw))
	for i, elem := range raw {
		var v float64
		if err := json.Unmarshal(elem, &v); err == nil {
			out = append(out, v)
			continue
		}
		var wrapped []float64
		if err := json.Unmarshal(elem, &wrapped); err != nil || len(wrapped) != 1 {
			return fmt.Errorf("element %d is neither a number nor a one-element list", i)
		}
		out = append(out, wrapped[0])
	}
	*f = out
	return nil
}

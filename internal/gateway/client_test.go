package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/mockbackend"
	"github.com/agbru/stockbot/internal/prediction"
)

func newMockServer(t *testing.T, opts mockbackend.Options) (*httptest.Server, *mockbackend.Backend) {
	t.Helper()
	backend := mockbackend.New(opts, nil)
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	return srv, backend
}

func sampleRequest(symbol string) prediction.PredictionRequest {
	return prediction.PredictionRequest{
		ID:        prediction.NewRequestID(),
		Symbol:    symbol,
		StartDate: "2020-01-01",
		EndDate:   "2020-06-01",
		Interval:  "1wk",
		Model:     prediction.Arima,
	}
}

func TestClientAgainstMockBackend(t *testing.T) {
	t.Parallel()
	srv, backend := newMockServer(t, mockbackend.Options{Lengths: map[string]int{"LONG": 240}})
	c := New(srv.URL+"/", WithTimeout(5*time.Second))
	ctx := context.Background()

	series, err := c.FetchSeries(ctx, sampleRequest("LONG"))
	require.NoError(t, err)
	assert.Len(t, series, 240)

	for name, run := range map[string]func(context.Context, prediction.PredictionRequest) (prediction.ModelRunResult, error){
		"arima":  c.RunArima,
		"linear": c.RunLinearRegression,
		"forest": c.RunRandomForest,
	} {
		res, err := run(ctx, sampleRequest("AAPL"))
		require.NoError(t, err, name)
		assert.NotEmpty(t, res.Predicted, name)
		assert.Len(t, res.Actual, len(res.Predicted), name)
		assert.GreaterOrEqual(t, res.ErrorMetric, 0.0, name)
		if name == "forest" {
			assert.NotNil(t, res.R2)
		} else {
			assert.Nil(t, res.R2, name)
		}
	}

	echo, err := c.RunEchoState(ctx, series, 0)
	require.NoError(t, err)
	assert.Len(t, echo.Predicted, 100)
	assert.Empty(t, echo.Actual)

	future, err := c.ForecastFuture(ctx, series, 0.9)
	require.NoError(t, err)
	assert.Len(t, future, 5)

	assert.Equal(t, 1, backend.Calls(OpFetchSeries))
	assert.Equal(t, 1, backend.Calls(OpRunRandomForest))
	assert.Equal(t, 1, backend.Calls(OpRunEchoState))
}

// capture records the last request body per path and answers with canned JSON.
func capture(t *testing.T, responses map[string]string) (*httptest.Server, map[string]map[string]any) {
	t.Helper()
	bodies := make(map[string]map[string]any)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		bodies[r.URL.Path] = body
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, responses[r.URL.Path])
	}))
	t.Cleanup(srv.Close)
	return srv, bodies
}

func TestClientRequestShapes(t *testing.T) {
	srv, bodies := capture(t, map[string]string{
		"/grab_data":   `{"result":[1,2,3]}`,
		"/run_arima":   `{"predictions":[[1.5],[2.5]],"expected":[1,2],"mse":0.25}`,
		"/run_echo":    `{"predictions":[[4,5,6]],"mse":1}`,
		"/future_pred": `{"result":[7,8]}`,
	})
	c := New(srv.URL)
	ctx := context.Background()
	req := sampleRequest("AAPL")

	_, err := c.FetchSeries(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"symbol": "AAPL", "start_date": "2020-01-01", "end_date": "2020-06-01", "intervals": "1d",
	}, bodies["/grab_data"])

	res, err := c.RunArima(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, prediction.Series{1.5, 2.5}, res.Predicted)
	assert.Equal(t, prediction.Series{1, 2}, res.Actual)
	assert.Equal(t, 0.25, res.ErrorMetric)
	assert.Equal(t, map[string]any{
		"stock_symbol": "AAPL", "start_date": "2020-01-01", "end_date": "2020-06-01",
		"interval": "1d", "split_percentage": ".66",
	}, bodies["/run_arima"])

	echo, err := c.RunEchoState(ctx, prediction.Series{1, 2}, -3)
	require.NoError(t, err)
	assert.Equal(t, prediction.Series{4, 5, 6}, echo.Predicted)
	assert.Equal(t, 1.2, bodies["/run_echo"]["sr"])

	future, err := c.ForecastFuture(ctx, prediction.Series{1, 2}, 0.7)
	require.NoError(t, err)
	assert.Equal(t, prediction.Series{7, 8}, future)
	assert.Equal(t, 0.7, bodies["/future_pred"]["sr"])
	assert.Equal(t, []any{1.0, 2.0}, bodies["/future_pred"]["data"])
}

func TestClientMalformedBodies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		path string
		body string
		call func(*Client) error
	}{
		{"not json", "/grab_data", `<html>`, func(c *Client) error {
			_, err := c.FetchSeries(context.Background(), sampleRequest("A"))
			return err
		}},
		{"missing result", "/grab_data", `{}`, func(c *Client) error {
			_, err := c.FetchSeries(context.Background(), sampleRequest("A"))
			return err
		}},
		{"empty echo predictions", "/run_echo", `{"predictions":[],"mse":1}`, func(c *Client) error {
			_, err := c.RunEchoState(context.Background(), prediction.Series{1}, 1)
			return err
		}},
		{"missing mse", "/run_rf", `{"predictions":[1],"actual_values":[1]}`, func(c *Client) error {
			_, err := c.RunRandomForest(context.Background(), sampleRequest("A"))
			return err
		}},
		{"nested rows", "/run_linear_regression", `{"predictions":[[1,2]],"expected":[1],"mse":0}`, func(c *Client) error {
			_, err := c.RunLinearRegression(context.Background(), sampleRequest("A"))
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, _ := capture(t, map[string]string{tt.path: tt.body})
			err := tt.call(New(srv.URL))
			var gwErr apperrors.GatewayError
			require.True(t, errors.As(err, &gwErr), "expected GatewayError, got %v", err)
			assert.Equal(t, apperrors.MalformedBody, gwErr.Kind)
			assert.Equal(t, strings.TrimPrefix(tt.path, "/"), gwErr.Op)
		})
	}
}

func TestClientNon2xx(t *testing.T) {
	t.Parallel()
	srv, _ := newMockServer(t, mockbackend.Options{})
	_, err := New(srv.URL).RunArima(context.Background(), sampleRequest("FAILWHALE"))

	var gwErr apperrors.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, apperrors.Non2xxStatus, gwErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	assert.Equal(t, "request failed with status code 500", err.Error())
}

func TestClientNetworkFailure(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = New("http://"+addr).FetchSeries(context.Background(), sampleRequest("AAPL"))
	var gwErr apperrors.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, apperrors.NetworkFailure, gwErr.Kind)
	assert.Equal(t, gwErr.Err.Error(), err.Error(), "network failures surface the transport text")
	assert.Contains(t, err.Error(), addr)
}

func TestClientTimeout(t *testing.T) {
	t.Parallel()
	srv, _ := newMockServer(t, mockbackend.Options{Latency: 2 * time.Second})
	start := time.Now()
	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).ForecastFuture(context.Background(), prediction.Series{1, 2, 3}, 1)
	assert.Less(t, time.Since(start), time.Second)

	var timeoutErr apperrors.TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "expected TimeoutError, got %v", err)
	assert.Equal(t, OpForecastFuture, timeoutErr.Operation)
	assert.Equal(t, apperrors.ExitErrorTimeout, apperrors.ExitCodeFor(err))
}

func TestClientParentCancellation(t *testing.T) {
	t.Parallel()
	srv, _ := newMockServer(t, mockbackend.Options{Latency: 2 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := New(srv.URL, WithTimeout(time.Minute)).FetchSeries(ctx, sampleRequest("AAPL"))

	var gwErr apperrors.GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, apperrors.NetworkFailure, gwErr.Kind)
	assert.True(t, errors.Is(err, context.Canceled))
	var timeoutErr apperrors.TimeoutError
	assert.False(t, errors.As(err, &timeoutErr), "cancellation is not a timeout")
}

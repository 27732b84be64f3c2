package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/stockbot/internal/orchestration"
	"github.com/agbru/stockbot/internal/orchestration/mocks"
	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/validation"
	"github.com/agbru/stockbot/internal/viewmodel"
)

// MockSpinner records calls for testing.
type MockSpinner struct {
	starts, stops int
	suffix        string
}

func (m *MockSpinner) Start()                     { m.starts++ }
func (m *MockSpinner) Stop()                      { m.stops++ }
func (m *MockSpinner) UpdateSuffix(suffix string) { m.suffix = suffix }

func ramp(n int) prediction.Series {
	s := make(prediction.Series, n)
	for i := range s {
		s[i] = 100 + float64(i)
	}
	return s
}

func newPredictor(t *testing.T, gw orchestration.Gateway) *orchestration.Orchestrator {
	t.Helper()
	o := orchestration.New(gw, status.NewController(time.Hour), viewmodel.NewStore(), orchestration.Options{})
	t.Cleanup(o.Shutdown)
	return o
}

func rawInput(model string) validation.RawInput {
	return validation.RawInput{Symbol: "aapl", StartDate: "2021-01-04", EndDate: "2021-12-31", Model: model}
}

func TestStatusPresenter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	mockS := &MockSpinner{}
	p := &StatusPresenter{out: &buf, spinner: mockS}

	p.OnStatus(status.Snapshot{Status: status.Loading, Toast: status.ToastLoading})
	p.OnStatus(status.Snapshot{Status: status.Loading})
	assert.Equal(t, 1, mockS.starts, "spinner should start once per request")
	assert.Contains(t, mockS.suffix, "Waiting")

	notice := "Ensure the data being passed has at least 100 items."
	p.OnStatus(status.Snapshot{Status: status.Loading, Notice: notice})
	p.OnStatus(status.Snapshot{Status: status.Success, Notice: notice})
	assert.Equal(t, 1, mockS.stops)
	assert.Equal(t, 1, strings.Count(buf.String(), notice), "notice should print once")

	p.Close()
	assert.Equal(t, 1, mockS.stops, "Close on a stopped spinner is a no-op")
}

func TestStatusPresenter_Quiet(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	mockS := &MockSpinner{}
	p := &StatusPresenter{out: &buf, quiet: true, spinner: mockS}

	p.OnStatus(status.Snapshot{Status: status.Loading, Notice: "x"})
	assert.Zero(t, mockS.starts)
	assert.Empty(t, buf.String())
}

func TestFormatChart(t *testing.T) {
	t.Parallel()
	req := prediction.PredictionRequest{StartDate: "2021-01-04", EndDate: "2021-12-31"}

	t.Run("prices", func(t *testing.T) {
		t.Parallel()
		view := viewmodel.View{Symbol: "AAPL", Model: prediction.Arima, Actual: ramp(40), Predicted: ramp(20)}
		lines := FormatChart(req, view, 30, 5)
		require.Len(t, lines, 5+2)
		assert.Contains(t, lines[0], "Model Comparison - AAPL / 2021-01-04 / 2021-12-31")
		assert.NotContains(t, lines[0], "Return Percentage")
		assert.Contains(t, lines[1], "$139.00")
		assert.Contains(t, lines[5], "$100.00")
		assert.Contains(t, lines[6], "Predicted")
	})

	t.Run("returns", func(t *testing.T) {
		t.Parallel()
		view := viewmodel.View{Symbol: "MSFT", Model: prediction.RandomForest, Units: viewmodel.Percent,
			Actual: prediction.Series{-1, 2}, Predicted: prediction.Series{0, 1}}
		lines := FormatChart(req, view, 20, 3)
		require.Len(t, lines, 3+2)
		assert.Contains(t, lines[0], "Return Percentage")
		assert.Contains(t, lines[1], "2.00%")
		for _, l := range lines {
			assert.NotContains(t, l, "$")
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, FormatChart(req, viewmodel.View{}, 20, 3))
	})
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	view := viewmodel.View{Symbol: "AAPL", Model: prediction.RandomForest, ErrorMetric: 0.5, Highlights: prediction.Series{1.5, 2}}
	assert.Equal(t, "AAPL\trf\t0.5\t1.5 2", FormatQuietResult(view))
}

func TestDisplayError(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())

	DisplayError(&buf, &status.ErrorState{Step: "run_lr", Message: "From run_lr: boom"})
	assert.Contains(t, buf.String(), "Error [run_lr]: From run_lr: boom")
}

func TestRunPrediction_Success(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))
	raw := ramp(150)
	mock.EXPECT().FetchSeries(gomock.Any(), gomock.Any()).Return(raw, nil)
	mock.EXPECT().RunLinearRegression(gomock.Any(), gomock.Any()).Return(prediction.ModelRunResult{
		Actual: raw.Last(30), Predicted: raw.Last(30), ErrorMetric: 2.5,
	}, nil)
	mock.EXPECT().ForecastFuture(gomock.Any(), gomock.Any(), gomock.Any()).Return(prediction.Series{1, 2, 3}, nil)

	var buf bytes.Buffer
	err := RunPrediction(context.Background(), newPredictor(t, mock), rawInput("lr"), &buf, OutputConfig{})
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{
		"Linear Regression", "AAPL", "2.5000", "Recent prices:", "$249.00",
		"$1.00, $2.00, $3.00", "Model Comparison - AAPL / 2021-01-04 / 2021-12-31",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRunPrediction_QuietEcho(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))
	raw := ramp(220)
	mock.EXPECT().FetchSeries(gomock.Any(), gomock.Any()).Return(raw, nil)
	mock.EXPECT().RunEchoState(gomock.Any(), raw, prediction.DefaultSpectralRadius).Return(prediction.ModelRunResult{
		Predicted: raw.First(10), ErrorMetric: 0.25,
	}, nil)
	mock.EXPECT().ForecastFuture(gomock.Any(), raw, prediction.DefaultSpectralRadius).Return(prediction.Series{7, 8}, nil)

	var buf bytes.Buffer
	err := RunPrediction(context.Background(), newPredictor(t, mock), rawInput("echo"), &buf, OutputConfig{Quiet: true})
	require.NoError(t, err)
	assert.Equal(t, "AAPL\techo\t0.25\t7 8\n", buf.String())
}

func TestRunPrediction_FetchFailure(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))
	boom := errors.New("connection refused")
	mock.EXPECT().FetchSeries(gomock.Any(), gomock.Any()).Return(nil, boom)

	var out, errOut bytes.Buffer
	err := RunPrediction(context.Background(), newPredictor(t, mock), rawInput("arima"), &out, OutputConfig{ErrWriter: &errOut})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, errOut.String(), "Error [grab_data]: connection refused")
	assert.NotContains(t, out.String(), "Prediction Result")
}

func TestRunPrediction_ValidationFailure(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))

	var buf bytes.Buffer
	err := RunPrediction(context.Background(), newPredictor(t, mock), validation.RawInput{Symbol: "AAPL"}, &buf, OutputConfig{})
	require.Error(t, err)
	assert.Contains(t, buf.String(), orchestration.MissingFieldsHint)
}

func TestREPL_PredictWithModelChange(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))
	raw := ramp(50)
	mock.EXPECT().FetchSeries(gomock.Any(), gomock.Any()).Return(raw, nil)
	mock.EXPECT().RunLinearRegression(gomock.Any(), gomock.Any()).Return(prediction.ModelRunResult{
		Actual: raw, Predicted: raw, ErrorMetric: 1,
	}, nil)

	var buf bytes.Buffer
	repl := NewREPL(newPredictor(t, mock), REPLConfig{DefaultModel: "arima"})
	repl.SetInput(strings.NewReader("model lr\npredict AAPL 2021-01-04 2021-12-31\nstatus\nexit\n"))
	repl.SetOutput(&buf)
	repl.Start(context.Background())

	out := buf.String()
	assert.Contains(t, out, "Model changed to:")
	assert.Contains(t, out, "Linear Regression")
	assert.Contains(t, out, "Ensure the data being passed has at least 100 items.")
	assert.Contains(t, out, "success")
	assert.Contains(t, out, "Goodbye!")
}

func TestREPL_ErrorBlocksUntilDismissed(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))

	var buf bytes.Buffer
	repl := NewREPL(newPredictor(t, mock), REPLConfig{})
	repl.SetInput(strings.NewReader("predict AAPL\nmodels\ndismiss\nmodels\n"))
	repl.SetOutput(&buf)
	repl.Start(context.Background())

	out := buf.String()
	assert.Contains(t, out, orchestration.MissingFieldsHint)
	assert.Contains(t, out, "An error is pending")
	assert.Equal(t, 1, strings.Count(out, "Available models:"), "models should only run after dismiss")
	assert.Contains(t, out, "Goodbye!")
}

func TestREPL_CommandErrors(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))

	var buf bytes.Buffer
	repl := NewREPL(newPredictor(t, mock), REPLConfig{})
	repl.SetInput(strings.NewReader("frobnicate\nmodel lstm\nsr abc\nsr 0.9\npredict a b c d e f\nquit\n"))
	repl.SetOutput(&buf)
	repl.Start(context.Background())

	out := buf.String()
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, `unknown model "lstm"`)
	assert.Contains(t, out, "Invalid spectral radius: abc")
	assert.Contains(t, out, "Spectral radius set to:")
	assert.Contains(t, out, "Usage: predict")
}

func TestREPL_ContextCancellation(t *testing.T) {
	t.Parallel()
	mock := mocks.NewMockGateway(gomock.NewController(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	repl := NewREPL(newPredictor(t, mock), REPLConfig{})
	repl.SetInput(blockingReader{})
	repl.SetOutput(&buf)

	done := make(chan struct{})
	go func() {
		repl.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("REPL did not stop on cancellation")
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	models := []string{"echo", "lr", "rf", "arima"}
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"_stockbot_completions", "--model|-m)", "--api-url", "echo lr rf arima", "compgen -f"}},
		{"zsh", []string{"#compdef stockbot", "'(-m --model)'{-m,--model}", ":file:_files"}},
		{"fish", []string{"complete -c stockbot -s m -l model", "-xa 'echo lr rf arima'", "-l log-file -d 'Log file path' -rF"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, GenerateCompletion(&buf, tt.shell, models))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}

	var buf bytes.Buffer
	assert.Error(t, GenerateCompletion(&buf, "powershell", models))
}

// Package mockbackend serves the prediction back end's six endpoints with
// deterministic synthetic data. It backs local development and the gateway
// and end-to-end tests.
package mockbackend

import (
	"encoding/json"
	"hash/fnv"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/agbru/stockbot/internal/logging"
	"github.com/agbru/stockbot/internal/server"
)

const dateLayout = "2006-01-02"

// Options tune the synthetic responses.
type Options struct {
	// Seed is mixed into every symbol's random walk.
	Seed int64
	// EchoPoints is the number of echo state predictions (default 100).
	EchoPoints int
	// FuturePoints is the number of extrapolated days (default 5).
	FuturePoints int
	// FailPrefix makes every endpoint answer 500 for matching symbols
	// (default "FAIL"). Series calls have no symbol and never fail this way.
	FailPrefix string
	// Lengths pins the raw series length for specific symbols.
	Lengths map[string]int
	// Latency delays every response.
	Latency time.Duration
}

func (o Options) withDefaults() Options {
	if o.EchoPoints <= 0 {
		o.EchoPoints = 100
	}
	if o.FuturePoints <= 0 {
		o.FuturePoints = 5
	}
	if o.FailPrefix == "" {
		o.FailPrefix = "FAIL"
	}
	return o
}

// Backend is the mock prediction service.
type Backend struct {
	opts   Options
	logger logging.Logger

	mu    sync.Mutex
	calls map[string]int
}

// New creates a Backend.
func New(opts Options, logger logging.Logger) *Backend {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Backend{opts: opts.withDefaults(), logger: logger, calls: make(map[string]int)}
}

// Router returns the gorilla/mux router serving all endpoints.
func (b *Backend) Router() *mux.Router {
	cors := server.SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
	}
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	routes := map[string]http.HandlerFunc{
		"/grab_data":             b.handleGrabData,
		"/run_arima":             b.handleModel("run_arima"),
		"/run_linear_regression": b.handleModel("run_linear_regression"),
		"/run_rf":                b.handleModel("run_rf"),
		"/run_echo":              b.handleEcho,
		"/future_pred":           b.handleFuture,
	}
	for path, h := range routes {
		router.HandleFunc(path, server.SecurityMiddleware(cors, b.instrument(path, h))).
			Methods(http.MethodPost, http.MethodOptions)
	}
	return router
}

// Calls returns how many requests reached op (e.g., "run_echo").
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *Backend) instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	op := strings.TrimPrefix(path, "/")
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[op]++
		b.mu.Unlock()
		if b.opts.Latency > 0 {
			select {
			case <-time.After(b.opts.Latency):
			case <-r.Context().Done():
				return
			}
		}
		start := time.Now()
		next(w, r)
		b.logger.Debug("mock request served", logging.String("op", op), logging.Duration("elapsed", time.Since(start)))
	}
}

type grabDataRequest struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Intervals string `json:"intervals"`
}

type modelRequest struct {
	StockSymbol     string `json:"stock_symbol"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Interval        string `json:"interval"`
	SplitPercentage string `json:"split_percentage"`
}

type seriesRequest struct {
	Data []float64 `json:"data"`
	SR   float64   `json:"sr"`
}

func (b *Backend) handleGrabData(w http.ResponseWriter, r *http.Request) {
	var req grabDataRequest
	if !decode(w, r, &req) {
		return
	}
	if b.failing(req.Symbol) {
		writeError(w, http.StatusInternalServerError, "upstream data provider unavailable")
		return
	}
	series, ok := b.series(w, req.Symbol, req.StartDate, req.EndDate)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{"result": series})
}

func (b *Backend) handleModel(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req modelRequest
		if !decode(w, r, &req) {
			return
		}
		if b.failing(req.StockSymbol) {
			writeError(w, http.StatusInternalServerError, op+" failed")
			return
		}
		split, err := strconv.ParseFloat(req.SplitPercentage, 64)
		if err != nil || split <= 0 || split >= 1 {
			writeError(w, http.StatusUnprocessableEntity, "split_percentage must be a fraction")
			return
		}
		series, ok := b.series(w, req.StockSymbol, req.StartDate, req.EndDate)
		if !ok {
			return
		}
		if op == "run_rf" {
			series = dailyReturns(series)
		}
		cut := int(float64(len(series)) * split)
		if cut < 1 || cut >= len(series) {
			writeError(w, http.StatusUnprocessableEntity, "not enough data to split")
			return
		}
		train, test := series[:cut], series[cut:]
		predictions := naiveForecast(train, test)
		mse := meanSquaredError(predictions, test)

		switch op {
		case "run_rf":
			writeJSON(w, map[string]any{
				"predictions":   predictions,
				"actual_values": test,
				"mse":           mse,
				"r2":            rSquared(predictions, test),
			})
		default:
			writeJSON(w, map[string]any{"predictions": predictions, "expected": test, "mse": mse})
		}
	}
}

func (b *Backend) handleEcho(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if !decode(w, r, &req) {
		return
	}
	const trainLen = 100
	n := b.opts.EchoPoints
	if len(req.Data) < trainLen+n {
		writeError(w, http.StatusUnprocessableEntity, "data too short for the echo state network")
		return
	}
	predictions := make([]float64, n)
	for i := range n {
		window := req.Data[i : trainLen+i]
		predictions[i] = damped(window, req.SR)
	}
	mse := meanSquaredError(predictions, req.Data[trainLen:trainLen+n])
	writeJSON(w, map[string]any{"mse": mse, "predictions": [][]float64{predictions}})
}

func (b *Backend) handleFuture(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "data must not be empty")
		return
	}
	data := req.Data
	if len(data) > 100 {
		data = data[len(data)-100:]
	}
	out := make([]float64, 0, b.opts.FuturePoints)
	window := append([]float64(nil), data...)
	for range b.opts.FuturePoints {
		next := damped(window, req.SR)
		out = append(out, next)
		window = append(window[1:], next)
	}
	writeJSON(w, map[string]any{"result": out})
}

func (b *Backend) failing(symbol string) bool {
	return strings.HasPrefix(strings.ToUpper(symbol), b.opts.FailPrefix)
}

func (b *Backend) series(w http.ResponseWriter, symbol, startDate, endDate string) ([]float64, bool) {
	start, err1 := time.Parse(dateLayout, startDate)
	end, err2 := time.Parse(dateLayout, endDate)
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusUnprocessableEntity, "dates must be YYYY-MM-DD")
		return nil, false
	}
	n, pinned := b.opts.Lengths[strings.ToUpper(symbol)]
	if !pinned {
		n = Weekdays(start, end)
	}
	return RandomWalk(b.seedFor(symbol), n), true
}

func (b *Backend) seedFor(symbol string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToUpper(symbol)))
	return int64(h.Sum64()>>1) ^ b.opts.Seed
}

// Weekdays counts Monday-to-Friday days in [start, end).
func Weekdays(start, end time.Time) int {
	n := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			n++
		}
	}
	return n
}

// RandomWalk returns n prices starting near 100 that never go below 1.
func RandomWalk(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	price := 50 + rng.Float64()*100
	for i := range out {
		price *= 1 + rng.NormFloat64()*0.015
		price = math.Max(price, 1)
		out[i] = math.Round(price*100) / 100
	}
	return out
}

// damped extrapolates one step from the mean of the last five points,
// pulled toward the last value by the spectral radius.
func damped(window []float64, sr float64) float64 {
	if sr <= 0 {
		sr = 1.2
	}
	k := min(5, len(window))
	tail := window[len(window)-k:]
	var mean float64
	for _, v := range tail {
		mean += v
	}
	mean /= float64(k)
	last := window[len(window)-1]
	weight := 1 / (1 + sr)
	return weight*mean + (1-weight)*last
}

func naiveForecast(train, test []float64) []float64 {
	out := make([]float64, len(test))
	prev := train[len(train)-1]
	for i := range test {
		out[i] = prev
		prev = test[i]
	}
	return out
}

func dailyReturns(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = (series[i] - series[i-1]) / series[i-1] * 100
	}
	return out
}

func meanSquaredError(pred, actual []float64) float64 {
	n := min(len(pred), len(actual))
	if n == 0 {
		return 0
	}
	var sum float64
	for i := range n {
		d := pred[i] - actual[i]
		sum += d * d
	}
	return sum / float64(n)
}

func rSquared(pred, actual []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	var mean float64
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))
	var ssRes, ssTot float64
	for i := range actual {
		ssRes += (actual[i] - pred[i]) * (actual[i] - pred[i])
		ssTot += (actual[i] - mean) * (actual[i] - mean)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

package prediction

import (
	"fmt"
	"strings"
)

// ModelKind identifies one of the back end's prediction models.
type ModelKind int

const (
	// EchoState is the echo state network. It is the default model.
	EchoState ModelKind = iota
	// Arima is the autoregressive integrated moving average model.
	Arima
	// LinearRegression is ordinary least squares over a lag window.
	LinearRegression
	// RandomForest predicts daily returns with a random forest regressor.
	RandomForest
)

// DefaultModel is selected when the user does not pick a model.
const DefaultModel = EchoState

// Models lists every model in the order presented to the user.
var Models = []ModelKind{EchoState, LinearRegression, RandomForest, Arima}

var displayNames = map[ModelKind]string{
	EchoState:        "Echo State",
	Arima:            "ARIMA",
	LinearRegression: "Linear Regression",
	RandomForest:     "Random Forest",
}

var modelAliases = map[string]ModelKind{
	"echo state":        EchoState,
	"echo":              EchoState,
	"esn":               EchoState,
	"arima":             Arima,
	"linear regression": LinearRegression,
	"linear":            LinearRegression,
	"lr":                LinearRegression,
	"random forest":     RandomForest,
	"rf":                RandomForest,
	"forest":            RandomForest,
}

// String returns the display name of the model.
func (m ModelKind) String() string {
	if name, ok := displayNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ModelKind(%d)", int(m))
}

// Slug returns a short lower-case identifier suitable for metric labels and
// command-line arguments.
func (m ModelKind) Slug() string {
	switch m {
	case EchoState:
		return "echo"
	case Arima:
		return "arima"
	case LinearRegression:
		return "lr"
	case RandomForest:
		return "rf"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the known models.
func (m ModelKind) Valid() bool {
	_, ok := displayNames[m]
	return ok
}

// ParseModel resolves a display name or alias, case-insensitively.
func ParseModel(s string) (ModelKind, error) {
	key := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if m, ok := modelAliases[key]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("unknown model %q", s)
}

// Next returns the model after m in Models, wrapping around.
func (m ModelKind) Next() ModelKind {
	for i, candidate := range Models {
		if candidate == m {
			return Models[(i+1)%len(Models)]
		}
	}
	return DefaultModel
}

// ModelNames returns the display names in presentation order.
func ModelNames() []string {
	names := make([]string, len(Models))
	for i, m := range Models {
		names[i] = m.String()
	}
	return names
}

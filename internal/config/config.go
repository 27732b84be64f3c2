// Package config builds the client configuration from command-line flags,
// STOCKBOT_* environment variables, an optional YAML file and built-in
// defaults, in that order of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/prediction"
)

const (
	// EnvPrefix is prepended to every environment variable the client reads.
	EnvPrefix = "STOCKBOT_"
	// LegacyAPIURLEnv is honoured as a last-resort source for the base URL.
	LegacyAPIURLEnv = "REACT_APP_API_URL"

	// DefaultTimeout bounds each remote call.
	DefaultTimeout = 2 * time.Minute
	// DefaultToastDuration is how long Loading and Success notices stay up.
	DefaultToastDuration = 3 * time.Second
	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"
)

// AppConfig aggregates all client settings.
type AppConfig struct {
	// APIURL is the prediction back end's base URL.
	APIURL string
	// Symbol, StartDate, EndDate, Interval, Model and SpectralRadius seed the
	// request form. In one-shot CLI mode they are the request.
	Symbol         string
	StartDate      string
	EndDate        string
	Interval       string
	Model          string
	SpectralRadius float64

	// Timeout bounds each gateway call. Zero disables the bound.
	Timeout time.Duration
	// ToastDuration is how long transient notices stay visible.
	ToastDuration time.Duration

	LogLevel string
	// LogFile receives logs in TUI mode. Empty discards them there.
	LogFile string
	// MetricsAddr, when set, exposes Prometheus metrics over HTTP.
	MetricsAddr string

	Interactive bool
	TUI         bool
	Quiet       bool
	NoColor     bool

	// Completion selects a shell for completion script output.
	Completion string
	// ConfigFile is the optional YAML file that was loaded.
	ConfigFile string
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Interval:      prediction.DefaultInterval,
		Model:         prediction.DefaultModel.String(),
		Timeout:       DefaultTimeout,
		ToastDuration: DefaultToastDuration,
		LogLevel:      DefaultLogLevel,
	}
}

// ParseConfig parses args into an AppConfig.
//
// Parameters:
//   - programName: The name shown in usage output.
//   - args: Command-line arguments without the program name.
//   - errWriter: Destination for usage and flag errors.
//
// Returns:
//   - AppConfig: The resolved configuration.
//   - error: flag.ErrHelp when help was requested, a ConfigError otherwise.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := Defaults()
	fs.StringVar(&config.APIURL, "api-url", config.APIURL, "Base URL of the prediction back end.")
	fs.StringVar(&config.Symbol, "symbol", config.Symbol, "Ticker symbol to predict (e.g., AAPL).")
	fs.StringVar(&config.Symbol, "s", config.Symbol, "Shorthand for --symbol.")
	fs.StringVar(&config.StartDate, "start", config.StartDate, "Start date of the price history (YYYY-MM-DD).")
	fs.StringVar(&config.EndDate, "end", config.EndDate, "End date of the price history (YYYY-MM-DD).")
	fs.StringVar(&config.Interval, "interval", config.Interval, "Bar interval shown in the form.")
	fs.StringVar(&config.Model, "model", config.Model, fmt.Sprintf("Prediction model (%s).", strings.Join(prediction.ModelNames(), ", ")))
	fs.StringVar(&config.Model, "m", config.Model, "Shorthand for --model.")
	fs.Float64Var(&config.SpectralRadius, "sr", config.SpectralRadius, "Spectral radius for the echo state and future calls (default 1.2 when unset).")
	fs.DurationVar(&config.Timeout, "timeout", config.Timeout, "Per-call timeout for remote requests (0 disables).")
	fs.DurationVar(&config.ToastDuration, "toast", config.ToastDuration, "How long loading and success notices stay visible.")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level (debug, info, warn, error, off).")
	fs.StringVar(&config.LogFile, "log-file", config.LogFile, "Write logs to this file.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", config.MetricsAddr, "Expose Prometheus metrics on this address (e.g., :2112).")
	fs.BoolVar(&config.Interactive, "interactive", config.Interactive, "Start an interactive prompt.")
	fs.BoolVar(&config.Interactive, "i", config.Interactive, "Shorthand for --interactive.")
	fs.BoolVar(&config.TUI, "tui", config.TUI, "Launch the terminal dashboard.")
	fs.BoolVar(&config.Quiet, "quiet", config.Quiet, "Print only the essential results.")
	fs.BoolVar(&config.Quiet, "q", config.Quiet, "Shorthand for --quiet.")
	fs.BoolVar(&config.NoColor, "no-color", config.NoColor, "Disable colored output.")
	fs.StringVar(&config.Completion, "completion", config.Completion, "Print a completion script for bash, zsh or fish.")
	fs.StringVar(&config.ConfigFile, "config", config.ConfigFile, "Path to a YAML configuration file.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags]\n\n", programName)
		fmt.Fprintln(errWriter, "Request stock price predictions from a prediction back end.")
		fmt.Fprintln(errWriter)
		fmt.Fprintln(errWriter, "Flags:")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEvery flag can also be set through %s<NAME> environment variables.\n", EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if config.ConfigFile == "" {
		config.ConfigFile = getEnvString("CONFIG", "")
	}
	if config.ConfigFile != "" {
		file, err := LoadFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		file.applyTo(&config, fs)
	}

	applyEnvOverrides(&config, fs)

	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c AppConfig) Validate() error {
	if c.Completion != "" {
		switch c.Completion {
		case "bash", "zsh", "fish":
			return nil
		default:
			return apperrors.NewConfigError("unsupported shell %q for --completion (bash, zsh, fish)", c.Completion)
		}
	}
	if c.APIURL == "" {
		return apperrors.NewConfigError("missing back end URL: set --api-url or %sAPI_URL", EnvPrefix)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.NewConfigError("invalid back end URL %q: expected http(s)://host[:port]", c.APIURL)
	}
	if c.Timeout < 0 {
		return apperrors.NewConfigError("timeout must not be negative, got %s", c.Timeout)
	}
	if c.ToastDuration <= 0 {
		return apperrors.NewConfigError("toast duration must be positive, got %s", c.ToastDuration)
	}
	if c.Model != "" {
		if _, err := prediction.ParseModel(c.Model); err != nil {
			return apperrors.NewConfigError("%v (available: %s)", err, strings.Join(prediction.ModelNames(), ", "))
		}
	}
	if c.Interactive && c.TUI {
		return apperrors.NewConfigError("--interactive and --tui are mutually exclusive")
	}
	return nil
}

// BaseURL returns APIURL without a trailing slash.
func (c AppConfig) BaseURL() string {
	return strings.TrimRight(c.APIURL, "/")
}

// Package app wires configuration, logging, the prediction back end client
// and the orchestrator together, then runs one of the front ends: one-shot
// CLI, interactive prompt or terminal dashboard.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/agbru/stockbot/internal/cli"
	"github.com/agbru/stockbot/internal/config"
	apperrors "github.com/agbru/stockbot/internal/errors"
	"github.com/agbru/stockbot/internal/gateway"
	"github.com/agbru/stockbot/internal/logging"
	"github.com/agbru/stockbot/internal/metrics"
	"github.com/agbru/stockbot/internal/orchestration"
	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/server"
	"github.com/agbru/stockbot/internal/status"
	"github.com/agbru/stockbot/internal/tui"
	"github.com/agbru/stockbot/internal/ui"
	"github.com/agbru/stockbot/internal/validation"
	"github.com/agbru/stockbot/internal/viewmodel"
)

// Application represents the stockbot application instance.
type Application struct {
	Config    config.AppConfig
	Gateway   orchestration.Gateway
	ErrWriter io.Writer
	// Stdin feeds the interactive prompt.
	Stdin io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithGateway replaces the HTTP back end client.
func WithGateway(gw orchestration.Gateway) AppOption {
	return func(a *Application) { a.Gateway = gw }
}

// WithStdin sets the reader the interactive prompt reads from.
func WithStdin(r io.Reader) AppOption {
	return func(a *Application) { a.Stdin = r }
}

// New creates a new Application instance by parsing command-line arguments.
// A .env file in the working directory is loaded first so that its values
// act as environment overrides.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, Stdin: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "stockbot"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(errWriter, "Warning: ignoring .env: %v\n", err)
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		if !IsHelpError(err) {
			fmt.Fprintf(errWriter, "Error: %v\n", err)
		}
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)

	logger, closeLog, err := a.newLogger()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer closeLog()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.MetricsAddr != "" {
		stop, err := a.startMetrics(ctx, logger)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer stop()
	}

	orch := a.newOrchestrator(logger)
	defer orch.Shutdown()

	switch {
	case a.Config.TUI:
		return tui.Run(ctx, orch, a.Config, Version)
	case a.Config.Interactive:
		return a.runREPL(ctx, orch, out)
	default:
		return a.runPrediction(ctx, orch, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	models := make([]string, len(prediction.Models))
	for i, m := range prediction.Models {
		models[i] = m.Slug()
	}
	if err := cli.GenerateCompletion(out, a.Config.Completion, models); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runPrediction submits the request described by the flags and prints its
// result.
func (a *Application) runPrediction(ctx context.Context, orch *orchestration.Orchestrator, out io.Writer) int {
	raw := validation.RawInput{
		Symbol:    a.Config.Symbol,
		StartDate: a.Config.StartDate,
		EndDate:   a.Config.EndDate,
		Interval:  a.Config.Interval,
		Model:     a.Config.Model,
	}
	if a.Config.SpectralRadius > 0 {
		raw.SpectralRadius = fmt.Sprint(a.Config.SpectralRadius)
	}

	err := cli.RunPrediction(ctx, orch, raw, out, cli.OutputConfig{
		Quiet:     a.Config.Quiet,
		ErrWriter: a.ErrWriter,
	})
	if err != nil && ctx.Err() != nil {
		return apperrors.ExitErrorCanceled
	}
	return apperrors.ExitCodeFor(err)
}

// runREPL starts the interactive prompt.
func (a *Application) runREPL(ctx context.Context, orch *orchestration.Orchestrator, out io.Writer) int {
	repl := cli.NewREPL(orch, cli.REPLConfig{
		DefaultModel:   a.Config.Model,
		SpectralRadius: a.Config.SpectralRadius,
		Interval:       a.Config.Interval,
	})
	repl.SetInput(a.Stdin)
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

func (a *Application) newOrchestrator(logger logging.Logger) *orchestration.Orchestrator {
	gw := a.Gateway
	if gw == nil {
		gw = gateway.New(a.Config.BaseURL(),
			gateway.WithTimeout(a.Config.Timeout),
			gateway.WithLogger(logger))
	}
	return orchestration.New(gw,
		status.NewController(a.Config.ToastDuration),
		viewmodel.NewStore(),
		orchestration.Options{Logger: logger})
}

// newLogger builds the application logger. The dashboard owns the terminal,
// so in TUI mode logs go to LogFile or nowhere.
func (a *Application) newLogger() (logging.Logger, func(), error) {
	level := logging.ParseLevel(a.Config.LogLevel)
	zerolog.SetGlobalLevel(level)

	if a.Config.LogFile != "" {
		f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, apperrors.NewConfigError("cannot open log file: %v", err)
		}
		zl := zerolog.New(f).Level(level).With().Timestamp().Str("component", "stockbot").Logger()
		return logging.NewZerologAdapter(zl), func() { _ = f.Close() }, nil
	}
	if a.Config.TUI {
		return logging.Nop(), func() {}, nil
	}
	if a.Config.Quiet {
		level = max(level, zerolog.WarnLevel)
	}
	return logging.NewConsoleLogger(a.ErrWriter, "stockbot", level), func() {}, nil
}

// startMetrics registers the client collectors and serves them until ctx is
// cancelled or stop is called.
func (a *Application) startMetrics(ctx context.Context, logger logging.Logger) (stop func(), err error) {
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}
	srv := server.NewMetricsServer(a.Config.MetricsAddr, reg, logger)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.ListenAndServe(ctx); err != nil {
			logger.Error("metrics server stopped", err, logging.String("addr", a.Config.MetricsAddr))
		}
	}()
	logger.Info("serving metrics", logging.String("addr", a.Config.MetricsAddr))
	return func() {
		cancel()
		<-done
	}, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

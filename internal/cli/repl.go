package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agbru/stockbot/internal/prediction"
	"github.com/agbru/stockbot/internal/ui"
	"github.com/agbru/stockbot/internal/validation"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultModel is the model used when a predict command names none.
	DefaultModel string
	// SpectralRadius is used when a predict command gives none. Zero means
	// the back end default.
	SpectralRadius float64
	// Interval is shown with each request.
	Interval string
}

// REPL is an interactive prediction session.
type REPL struct {
	config    REPLConfig
	predictor Predictor
	model     prediction.ModelKind
	in        io.Reader
	out       io.Writer
}

// NewREPL creates a new REPL instance.
//
// Parameters:
//   - p: The predictor requests are submitted to.
//   - config: REPL configuration.
//
// Returns:
//   - *REPL: A new REPL instance.
func NewREPL(p Predictor, config REPLConfig) *REPL {
	model, err := prediction.ParseModel(config.DefaultModel)
	if err != nil {
		model = prediction.DefaultModel
	}
	return &REPL{
		config:    config,
		predictor: p,
		model:     model,
		in:        os.Stdin,
		out:       os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start runs the session until the user exits, input ends or ctx is
// cancelled.
func (r *REPL) Start(ctx context.Context) {
	presenter := NewStatusPresenter(r.out, false)
	unsubscribe := r.predictor.Status().Subscribe(presenter)
	defer unsubscribe()
	defer presenter.Close()

	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(r.in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"stockbot> "+ui.ColorReset())

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		case err := <-readErr:
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		case input = <-lines:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.processCommand(ctx, presenter, input) {
			return
		}
	}
}

// printBanner displays the REPL welcome banner.
func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %s📈 Stockbot - Interactive Mode%s                         %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

// printHelp displays available commands.
func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %spredict <symbol> <start> <end> [model] [sr]%s - Request a prediction\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smodel <name>%s     - Change the default model (%s)\n", ui.ColorYellow(), ui.ColorReset(), r.modelList())
	fmt.Fprintf(r.out, "  %ssr <value>%s       - Set the spectral radius (0 for the default)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %smodels%s           - List available models\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s           - Display the session state\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdismiss%s          - Acknowledge the current error\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s             - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s      - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

func (r *REPL) modelList() string {
	slugs := make([]string, len(prediction.Models))
	for i, m := range prediction.Models {
		slugs[i] = m.Slug()
	}
	return strings.Join(slugs, ", ")
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(ctx context.Context, presenter *StatusPresenter, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "h", "?":
		r.printHelp()
		return true
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	case "dismiss", "d":
		r.predictor.Dismiss()
		fmt.Fprintln(r.out, "Dismissed.")
		return true
	case "status", "st":
		r.cmdStatus()
		return true
	}

	// A failed request must be acknowledged before anything else happens.
	if snap := r.predictor.Status().Snapshot(); snap.Blocking && snap.Error != nil {
		fmt.Fprintf(r.out, "%sAn error is pending: %s%s\n", ui.ColorRed(), snap.Error.Message, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %sdismiss%s to continue.\n", ui.ColorYellow(), ui.ColorReset())
		return true
	}

	switch cmd {
	case "predict", "p":
		r.cmdPredict(ctx, presenter, args)
	case "model", "m":
		r.cmdModel(args)
	case "sr":
		r.cmdSpectralRadius(args)
	case "models", "ls":
		r.cmdModels()
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

// cmdPredict handles the "predict" command. Missing fields are passed on
// blank so validation reports them.
func (r *REPL) cmdPredict(ctx context.Context, presenter *StatusPresenter, args []string) {
	raw := validation.RawInput{
		Interval: r.config.Interval,
		Model:    r.model.String(),
	}
	if r.config.SpectralRadius > 0 {
		raw.SpectralRadius = strconv.FormatFloat(r.config.SpectralRadius, 'f', -1, 64)
	}
	fields := []*string{&raw.Symbol, &raw.StartDate, &raw.EndDate, &raw.Model, &raw.SpectralRadius}
	for i, arg := range args {
		if i >= len(fields) {
			fmt.Fprintf(r.out, "%sUsage: predict <symbol> <start> <end> [model] [sr]%s\n", ui.ColorRed(), ui.ColorReset())
			return
		}
		*fields[i] = arg
	}

	// Errors are already reported by predict.
	_ = predict(ctx, r.predictor, presenter, raw, r.out, OutputConfig{})
	fmt.Fprintln(r.out)
}

// cmdModel handles the "model" command.
func (r *REPL) cmdModel(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: model <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available models: %s\n", r.modelList())
		return
	}
	m, err := prediction.ParseModel(strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		fmt.Fprintf(r.out, "Available models: %s\n", r.modelList())
		return
	}
	r.model = m
	fmt.Fprintf(r.out, "Model changed to: %s%s%s\n", ui.ColorGreen(), m, ui.ColorReset())
}

// cmdSpectralRadius handles the "sr" command.
func (r *REPL) cmdSpectralRadius(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(r.out, "%sUsage: sr <value>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || v < 0 {
		fmt.Fprintf(r.out, "%sInvalid spectral radius: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.SpectralRadius = v
	fmt.Fprintf(r.out, "Spectral radius set to: %s%g%s\n", ui.ColorGreen(), prediction.EffectiveSpectralRadius(v), ui.ColorReset())
}

// cmdModels handles the "models" command.
func (r *REPL) cmdModels() {
	fmt.Fprintf(r.out, "\n%sAvailable models:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, m := range prediction.Models {
		marker := "  "
		if m == r.model {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-6s%s - %s\n", marker, ui.ColorYellow(), m.Slug(), ui.ColorReset(), m)
	}
	fmt.Fprintln(r.out)
}

// cmdStatus displays the session state.
func (r *REPL) cmdStatus() {
	snap := r.predictor.Status().Snapshot()
	fmt.Fprintf(r.out, "\n%sSession:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Model:            %s%s%s\n", ui.ColorCyan(), r.model, ui.ColorReset())
	fmt.Fprintf(r.out, "  Spectral radius:  %s%g%s\n", ui.ColorCyan(), prediction.EffectiveSpectralRadius(r.config.SpectralRadius), ui.ColorReset())
	fmt.Fprintf(r.out, "  Status:           %s%s%s\n", ui.ColorCyan(), snap.Status, ui.ColorReset())
	if snap.Error != nil {
		fmt.Fprintf(r.out, "  Error:            %s%s%s\n", ui.ColorRed(), snap.Error.Message, ui.ColorReset())
	}
	if snap.Notice != "" {
		fmt.Fprintf(r.out, "  Notice:           %s%s%s\n", ui.ColorYellow(), snap.Notice, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

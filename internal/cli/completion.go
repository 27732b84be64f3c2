package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// Every shell script is generated from flagRegistry, so adding a flag only
// requires appending to it.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "model")
	Short     string   // short flag without "-" (e.g., "m")
	Help      string   // description text
	Values    []string // suggested values (nil = boolean or free text)
	ValueName string   // label for the value in zsh (e.g., "date")
	IsFile    bool     // true if the flag takes a file path
	IsModel   bool     // true if values come from the model list
}

// flagRegistry is the list of all CLI flags, in help order.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "api-url", Help: "Base URL of the prediction back end", ValueName: "url"},
	{Long: "symbol", Short: "s", Help: "Ticker symbol to predict", ValueName: "symbol"},
	{Long: "start", Help: "Start date of the price history", ValueName: "date"},
	{Long: "end", Help: "End date of the price history", ValueName: "date"},
	{Long: "interval", Help: "Bar interval", Values: []string{"1d"}, ValueName: "interval"},
	{Long: "model", Short: "m", Help: "Prediction model", IsModel: true, ValueName: "model"},
	{Long: "sr", Help: "Spectral radius", Values: []string{"0.9", "1.0", "1.2", "1.5"}, ValueName: "radius"},
	{Long: "timeout", Help: "Per-call timeout", Values: []string{"30s", "1m", "2m", "5m"}, ValueName: "duration"},
	{Long: "toast", Help: "Notice duration", Values: []string{"2s", "3s", "5s"}, ValueName: "duration"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "off"}, ValueName: "level"},
	{Long: "log-file", Help: "Log file path", IsFile: true, ValueName: "file"},
	{Long: "metrics-addr", Help: "Prometheus metrics address", ValueName: "addr"},
	{Long: "interactive", Short: "i", Help: "Start an interactive prompt"},
	{Long: "tui", Help: "Launch the terminal dashboard"},
	{Long: "quiet", Short: "q", Help: "Print only the essential results"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "config", Help: "YAML configuration file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish").
//   - models: Model names offered for --model.
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string, models []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(models)
	case "zsh":
		script = zshCompletion(models)
	case "fish":
		script = fishCompletion(models)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// flagNames returns the dash-prefixed names of f.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func bashCompletion(models []string) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)

		var body string
		switch {
		case f.IsModel:
			body = `COMPREPLY=( $(compgen -W "${models}" -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(flagNames(f), "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for stockbot
# Add this to your ~/.bashrc or ~/.bash_completion

_stockbot_completions() {
    local cur prev opts models
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    models="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _stockbot_completions stockbot
`, strings.Join(opts, " "), strings.Join(models, " "), cases.String())
}

func zshCompletion(models []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	return fmt.Sprintf(`#compdef stockbot

# Zsh completion script for stockbot
# Add this to your ~/.zshrc or place in $fpath

_stockbot() {
    local -a models
    models=(%s)

    _arguments -s \
%s
}

_stockbot "$@"
`, strings.Join(models, " "), strings.Join(args, " \\\n"))
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsModel:
		valueSuffix = fmt.Sprintf(":%s:($models)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func fishCompletion(models []string) string {
	lines := []string{
		"# Fish completion script for stockbot",
		"# Add this to ~/.config/fish/completions/stockbot.fish",
		"",
		"# Disable file completion by default",
		"complete -c stockbot -f",
		"",
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, strings.Join(models, " ")))
	}
	return strings.Join(lines, "\n") + "\n"
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, models string) string {
	parts := []string{"complete -c stockbot"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsModel:
		parts = append(parts, fmt.Sprintf("-xa '%s'", models))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

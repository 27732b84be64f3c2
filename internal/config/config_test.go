package config

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/agbru/stockbot/internal/errors"
)

const testURL = "http://localhost:8000"

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig("stockbot", []string{"--api-url", testURL}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "Echo State" {
		t.Errorf("Model = %q, want Echo State", cfg.Model)
	}
	if cfg.Interval != "1d" {
		t.Errorf("Interval = %q, want 1d", cfg.Interval)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.ToastDuration != 3*time.Second {
		t.Errorf("ToastDuration = %v, want 3s", cfg.ToastDuration)
	}
	if cfg.BaseURL() != testURL {
		t.Errorf("BaseURL() = %q", cfg.BaseURL())
	}
}

func TestParseConfigFlags(t *testing.T) {
	args := []string{
		"--api-url", testURL + "/",
		"-s", "aapl",
		"--start", "2020-01-01",
		"--end", "2021-01-01",
		"-m", "rf",
		"--sr", "0.9",
		"--timeout", "10s",
		"-q",
	}
	cfg, err := ParseConfig("stockbot", args, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Symbol != "aapl" || cfg.StartDate != "2020-01-01" || cfg.EndDate != "2021-01-01" {
		t.Errorf("unexpected request fields: %+v", cfg)
	}
	if cfg.Model != "rf" || cfg.SpectralRadius != 0.9 || cfg.Timeout != 10*time.Second || !cfg.Quiet {
		t.Errorf("unexpected options: %+v", cfg)
	}
	if cfg.BaseURL() != testURL {
		t.Errorf("BaseURL() should trim the trailing slash, got %q", cfg.BaseURL())
	}
}

func TestParseConfigHelp(t *testing.T) {
	var buf bytes.Buffer
	_, err := ParseConfig("stockbot", []string{"--help"}, &buf)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Usage: stockbot")) {
		t.Errorf("usage not printed: %s", buf.String())
	}
}

func TestParseConfigErrors(t *testing.T) {
	t.Setenv(EnvPrefix+"API_URL", "")
	t.Setenv(LegacyAPIURLEnv, "")
	tests := []struct {
		name string
		args []string
	}{
		{"missing url", nil},
		{"bad scheme", []string{"--api-url", "ftp://host"}},
		{"no host", []string{"--api-url", "http://"}},
		{"negative timeout", []string{"--api-url", testURL, "--timeout", "-1s"}},
		{"zero toast", []string{"--api-url", testURL, "--toast", "0s"}},
		{"unknown model", []string{"--api-url", testURL, "--model", "lstm"}},
		{"conflicting modes", []string{"--api-url", testURL, "--tui", "-i"}},
		{"bad shell", []string{"--completion", "powershell"}},
		{"positional args", []string{"--api-url", testURL, "AAPL"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("stockbot", tt.args, &bytes.Buffer{})
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestCompletionDoesNotNeedURL(t *testing.T) {
	t.Setenv(EnvPrefix+"API_URL", "")
	t.Setenv(LegacyAPIURLEnv, "")
	cfg, err := ParseConfig("stockbot", []string{"--completion", "zsh"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Completion != "zsh" {
		t.Errorf("Completion = %q", cfg.Completion)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"API_URL", "http://env:9000")
	t.Setenv(EnvPrefix+"MODEL", "arima")
	t.Setenv(EnvPrefix+"SR", "1.5")
	t.Setenv(EnvPrefix+"TIMEOUT", "45s")
	t.Setenv(EnvPrefix+"TUI", "yes")
	t.Setenv(EnvPrefix+"QUIET", "garbage")

	cfg, err := ParseConfig("stockbot", []string{"--model", "lr"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://env:9000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Model != "lr" {
		t.Errorf("flag should win over env, Model = %q", cfg.Model)
	}
	if cfg.SpectralRadius != 1.5 || cfg.Timeout != 45*time.Second || !cfg.TUI {
		t.Errorf("env values not applied: %+v", cfg)
	}
	if cfg.Quiet {
		t.Error("unrecognized boolean should keep the default")
	}
}

func TestLegacyAPIURLFallback(t *testing.T) {
	t.Setenv(EnvPrefix+"API_URL", "")
	t.Setenv(LegacyAPIURLEnv, "http://legacy:8000")
	cfg, err := ParseConfig("stockbot", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://legacy:8000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
}

func TestConfigFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stockbot.yaml")
	content := `
api:
  baseURL: http://file:8000
  timeout: 30s
defaults:
  symbol: MSFT
  model: Random Forest
  spectralRadius: 0.8
logging:
  level: debug
ui:
  toastDuration: 1s
  noColor: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"API_URL", "")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "warn")

	cfg, err := ParseConfig("stockbot", []string{"--config", path, "--symbol", "GOOG"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://file:8000" || cfg.Timeout != 30*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Symbol != "GOOG" {
		t.Errorf("flag should win over file, Symbol = %q", cfg.Symbol)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("env should win over file, LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Model != "Random Forest" || cfg.SpectralRadius != 0.8 || cfg.ToastDuration != time.Second || !cfg.NoColor {
		t.Errorf("file defaults not applied: %+v", cfg)
	}
}

func TestConfigFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("api:\n  baseURL: https://predict.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"API_URL", "")
	t.Setenv(EnvPrefix+"CONFIG", path)
	cfg, err := ParseConfig("stockbot", nil, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ConfigFile != path || cfg.APIURL != "https://predict.example.com" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for missing file, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("api: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for bad yaml, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STOCKBOT_TEST_DOTENV=from-file\nSTOCKBOT_TEST_PRESET=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STOCKBOT_TEST_DOTENV", "")
	os.Unsetenv("STOCKBOT_TEST_DOTENV")
	t.Setenv("STOCKBOT_TEST_PRESET", "from-env")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("STOCKBOT_TEST_DOTENV"); got != "from-file" {
		t.Errorf("STOCKBOT_TEST_DOTENV = %q", got)
	}
	if got := os.Getenv("STOCKBOT_TEST_PRESET"); got != "from-env" {
		t.Errorf("existing variables must not be overwritten, got %q", got)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"false", true, false},
		{"No", true, false},
		{"0", true, false},
		{"maybe", true, true},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v", tt.in, tt.def, got)
		}
	}
}

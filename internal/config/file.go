package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/stockbot/internal/errors"
)

// FileConfig is the on-disk YAML layout. Zero values leave the corresponding
// setting untouched.
type FileConfig struct {
	API      APIFileConfig      `yaml:"api"`
	Defaults DefaultsFileConfig `yaml:"defaults"`
	Logging  LoggingFileConfig  `yaml:"logging"`
	Metrics  MetricsFileConfig  `yaml:"metrics"`
	UI       UIFileConfig       `yaml:"ui"`
}

// APIFileConfig configures access to the prediction back end.
type APIFileConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultsFileConfig seeds the request form.
type DefaultsFileConfig struct {
	Symbol         string  `yaml:"symbol"`
	Interval       string  `yaml:"interval"`
	Model          string  `yaml:"model"`
	SpectralRadius float64 `yaml:"spectralRadius"`
}

// LoggingFileConfig controls logging.
type LoggingFileConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MetricsFileConfig controls the metrics listener.
type MetricsFileConfig struct {
	Address string `yaml:"address"`
}

// UIFileConfig controls presentation.
type UIFileConfig struct {
	ToastDuration time.Duration `yaml:"toastDuration"`
	NoColor       bool          `yaml:"noColor"`
}

// LoadFile reads and decodes a YAML configuration file.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, apperrors.NewConfigError("config file %s not found", path)
		}
		return cfg, apperrors.NewConfigError("read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.NewConfigError("parse config %s: %v", path, err)
	}
	return cfg, nil
}

// applyTo copies non-zero file values into c for flags that were not set.
func (f FileConfig) applyTo(c *AppConfig, fs *flag.FlagSet) {
	setString := func(dst *string, v string, flags ...string) {
		if v != "" && !isFlagSetAny(fs, flags...) {
			*dst = v
		}
	}
	setString(&c.APIURL, f.API.BaseURL, "api-url")
	setString(&c.Symbol, f.Defaults.Symbol, "symbol", "s")
	setString(&c.Interval, f.Defaults.Interval, "interval")
	setString(&c.Model, f.Defaults.Model, "model", "m")
	setString(&c.LogLevel, f.Logging.Level, "log-level")
	setString(&c.LogFile, f.Logging.File, "log-file")
	setString(&c.MetricsAddr, f.Metrics.Address, "metrics-addr")

	if f.API.Timeout != 0 && !isFlagSet(fs, "timeout") {
		c.Timeout = f.API.Timeout
	}
	if f.UI.ToastDuration != 0 && !isFlagSet(fs, "toast") {
		c.ToastDuration = f.UI.ToastDuration
	}
	if f.Defaults.SpectralRadius != 0 && !isFlagSet(fs, "sr") {
		c.SpectralRadius = f.Defaults.SpectralRadius
	}
	if f.UI.NoColor && !isFlagSet(fs, "no-color") {
		c.NoColor = true
	}
}

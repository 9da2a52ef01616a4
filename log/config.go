package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"moul.io/zapfilter"
)

// Config describes the logger setup read from an optional YAML file.
// Filters use zapfilter rule syntax, for example "debug:processing.*".
type Config struct {
	DefaultLevel string   `yaml:"defaultLevel"`
	Filters      []string `yaml:"filters"`
}

func DefaultConfig() *Config {
	return &Config{DefaultLevel: "info"}
}

func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	ret := DefaultConfig()
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// InitFromConfig builds the default logger from cfg and installs it.
// format is either "json" or "text".
func InitFromConfig(cfg *Config, format string) (*Logger, error) {
	level, err := ParseLevel(cfg.DefaultLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.DefaultLevel, err)
	}
	var l *Logger
	if format == "json" {
		l = New(os.Stderr, level)
	} else {
		l = DevLogger(os.Stderr, level)
	}
	if len(cfg.Filters) > 0 {
		rules := ""
		for i, f := range cfg.Filters {
			if i > 0 {
				rules += " "
			}
			rules += f
		}
		filterFunc, fErr := zapfilter.ParseRules(rules)
		if fErr != nil {
			return nil, fmt.Errorf("invalid log filters: %w", fErr)
		}
		l = &Logger{
			l: l.l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
				return zapfilter.NewFilteringCore(core, filterFunc)
			})),
			level: level,
		}
	}
	ResetDefault(l)
	return l, nil
}

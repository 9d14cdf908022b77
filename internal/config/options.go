package config

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Default configuration values.
const (
	DefaultAllowBlockElements = true
	DefaultDebug              = false
	DefaultMaxHistory         = 0
	DefaultLogLevel           = "info"
)

// Options is the editor configuration.
type Options struct {
	AllowBlockElements bool   `mapstructure:"allowBlockElements"`
	Debug              bool   `mapstructure:"debug"`
	MaxHistory         int    `mapstructure:"maxHistory"`
	LogLevel           string `mapstructure:"logLevel"`

	// Extensions holds values for keys in the recognised extension set.
	Extensions map[string]any `mapstructure:"-"`
}

// Default returns the default options.
func Default() Options {
	return Options{
		AllowBlockElements: DefaultAllowBlockElements,
		Debug:              DefaultDebug,
		MaxHistory:         DefaultMaxHistory,
		LogLevel:           DefaultLogLevel,
		Extensions:         map[string]any{},
	}
}

// Decode builds options from raw, starting from the defaults. Keys listed
// in recognized are collected into Extensions; any other unknown key is an
// error.
func Decode(raw map[string]any, recognized ...string) (Options, error) {
	opts := Default()

	ext := make(map[string]bool, len(recognized))
	for _, k := range recognized {
		ext[k] = true
	}

	input := make(map[string]any, len(raw))
	for k, v := range raw {
		if ext[k] {
			opts.Extensions[k] = v
			continue
		}
		input[k] = v
	}

	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &opts,
		Metadata: &md,
	})
	if err != nil {
		return Options{}, &Error{Err: err}
	}
	if err := dec.Decode(input); err != nil {
		return Options{}, &Error{Err: fmt.Errorf("%w: %w", ErrInvalidValue, err)}
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return Options{}, &Error{Keys: md.Unused, Err: ErrUnknownOption}
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks option values.
func (o Options) Validate() error {
	if o.MaxHistory < 0 {
		return &Error{Keys: []string{"maxHistory"}, Err: fmt.Errorf("%w: must be >= 0, got %d", ErrInvalidValue, o.MaxHistory)}
	}
	if _, ok := parseLevel(o.LogLevel); !ok {
		return &Error{Keys: []string{"logLevel"}, Err: fmt.Errorf("%w: %q", ErrInvalidValue, o.LogLevel)}
	}
	return nil
}

// Level returns the slog level for LogLevel, defaulting to info.
func (o Options) Level() slog.Level {
	level, _ := parseLevel(o.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug", "DEBUG":
		return slog.LevelDebug, true
	case "info", "INFO", "":
		return slog.LevelInfo, true
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, true
	case "error", "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

package engine

import (
	"log/slog"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/metrics"
	"github.com/dshills/scribe/internal/plugin"
)

// PushAfterFocusTask names the deferred history push scheduled by Focus.
const PushAfterFocusTask = "history.push-after-focus"

// Option configures an Editor during creation.
type Option func(*Editor)

// WithConfig sets the raw configuration map. It is decoded by New;
// unknown keys make New fail with a *config.Error.
func WithConfig(raw map[string]any) Option {
	return func(e *Editor) {
		e.rawConfig = raw
		e.decoded = nil
	}
}

// WithOptions sets already decoded options.
func WithOptions(opts config.Options) Option {
	return func(e *Editor) {
		e.decoded = &opts
		e.rawConfig = nil
	}
}

// WithRecognizedOptions extends the set of accepted configuration keys.
// Their values are available through Options().Extensions.
func WithRecognizedOptions(keys ...string) Option {
	return func(e *Editor) {
		e.recognized = append(e.recognized, keys...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Editor) {
		e.metrics = m
	}
}

// WithPlugins installs plugins after the built-in ones, in order.
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(e *Editor) {
		e.pending = append(e.pending, plugins...)
	}
}

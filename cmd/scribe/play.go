package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/engine"
	"github.com/dshills/scribe/internal/host"
	"github.com/dshills/scribe/internal/metrics"
	"github.com/dshills/scribe/internal/plugin"
	"github.com/dshills/scribe/internal/plugin/lua"
)

// playSettings are the flags shared by play.
type playSettings struct {
	configPath string
	plugins    []string
	logLevel   string
	metrics    bool
	environ    []string
}

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <script>",
		Short: "Run an editing script against an empty document",
		Long: `Run an editing script. Use - to read the script from stdin.

Directives, one per line (# starts a comment):

  load <html>           replace the content and push it to history
  content <html>        replace the content in a transaction
  select <start> [end]  select a byte range of the markup
  type <text>           type text at the selection (native input)
  exec <name> [value]   execute a command
  insert <html>         insert markup at the selection
  paste <text>          insert plain text at the selection
  push                  push the current content to history
  undo | redo           move through history
  focus | blur | flush  focus, blur, run deferred tasks
  print                 print the content
  history               print the history entries
  begin [name] | end    coalesce the pushes in between into one entry

Options can be overridden with SCRIBE_* environment variables, for
example SCRIBE_MAX_HISTORY=100.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var s playSettings
			s.configPath, _ = flags.GetString("config")
			s.plugins, _ = flags.GetStringSlice("plugin")
			s.logLevel, _ = flags.GetString("log-level")
			s.metrics, _ = flags.GetBool("metrics")
			s.environ = os.Environ()

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return play(s, in, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func play(s playSettings, script io.Reader, stdout, stderr io.Writer) error {
	var file map[string]any
	if s.configPath != "" {
		raw, err := config.ReadPath(s.configPath)
		if err != nil {
			return err
		}
		file = raw
	}
	overrides := map[string]any{}
	if s.logLevel != "" {
		overrides["logLevel"] = s.logLevel
	}
	opts, err := config.Decode(config.Merge(file, config.FromEnv(s.environ), overrides))
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: opts.Level()}))

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	scripts, err := lua.LoadAll(s.plugins, lua.WithLogger(logger.With("component", "lua")))
	if err != nil {
		return err
	}
	plugins := make([]plugin.Plugin, len(scripts))
	for i, p := range scripts {
		plugins[i] = p
	}

	doc := host.NewMemory("")
	ed, err := engine.New(doc,
		engine.WithOptions(opts),
		engine.WithLogger(logger),
		engine.WithMetrics(m),
		engine.WithPlugins(plugins...),
	)
	if err != nil {
		for _, p := range scripts {
			p.Close()
		}
		return err
	}
	defer ed.Close()

	if err := newRunner(ed, doc, stdout).run(script); err != nil {
		return err
	}

	if s.metrics {
		return writeMetrics(stdout, reg)
	}
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/scribe/internal/command"
	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/engine/history"
	"github.com/dshills/scribe/internal/engine/transaction"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/host"
	"github.com/dshills/scribe/internal/marker"
	"github.com/dshills/scribe/internal/metrics"
	"github.com/dshills/scribe/internal/pipeline"
	"github.com/dshills/scribe/internal/plugin"
	"github.com/dshills/scribe/internal/plugin/builtin"
	"github.com/dshills/scribe/internal/schedule"
)

// Editor is the facade over one editable region.
type Editor struct {
	id  string
	doc host.Document

	opts    config.Options
	logger  *slog.Logger
	metrics *metrics.Metrics

	notifier  *event.Notifier
	registry  *command.Registry
	history   *history.History
	html      *pipeline.Pipeline
	plainText *pipeline.Pipeline
	tx        *transaction.Manager
	queue     *schedule.Queue

	plugins []plugin.Plugin
	loaded  map[string]bool
	closed  bool

	// Construction-time settings.
	rawConfig  map[string]any
	decoded    *config.Options
	recognized []string
	pending    []plugin.Plugin
}

var (
	_ command.Env              = (*Editor)(nil)
	_ builtin.HistoryEnv       = (*Editor)(nil)
	_ plugin.ListenerRegistrar = (*Editor)(nil)
)

// New creates an editor over doc.
//
// Configuration is decoded first; an unknown or invalid option fails
// construction with a *config.Error. The built-in plugins are installed,
// then the plugins passed with WithPlugins. Finally the initial content is
// pushed as the first history entry.
func New(doc host.Document, opts ...Option) (*Editor, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	e := &Editor{
		id:     uuid.NewString(),
		doc:    doc,
		logger: slog.New(slog.DiscardHandler),
		loaded: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.configure(); err != nil {
		return nil, err
	}
	e.logger = e.logger.With("component", "editor", "editor", e.id)

	e.notifier = event.NewNotifier(event.WithLogger(e.logger))
	e.registry = command.NewRegistry(e)
	e.history = history.NewHistory(e.opts.MaxHistory)
	e.html = pipeline.New()
	e.plainText = pipeline.New()
	e.queue = schedule.NewQueue(e.logger)

	txOpts := []transaction.Option{
		transaction.WithPipeline(e.html),
		transaction.WithCommit(func() { e.PushHistory() }),
		transaction.WithLogger(e.logger),
	}
	if e.metrics != nil {
		txOpts = append(txOpts, transaction.WithObserver(e.metrics))
	}
	if e.opts.Debug {
		txOpts = append(txOpts, transaction.WithCheck(e.assertConsistent))
	}
	e.tx = transaction.New(doc, e.notifier, txOpts...)

	mode := builtin.BlockMode()
	if !e.opts.AllowBlockElements {
		mode = builtin.InlineMode()
	}
	plugins := append([]plugin.Plugin{
		builtin.Formatters(),
		builtin.History(),
		builtin.Patches(),
		mode,
	}, e.pending...)
	e.pending = nil

	for _, p := range plugins {
		if err := e.Use(p); err != nil {
			e.Close()
			return nil, err
		}
	}

	if src, ok := doc.(host.InputSource); ok {
		src.OnInput(func() {
			if err := e.HandleInput(); err != nil {
				e.logger.Warn("input transaction failed", "error", err)
			}
		})
	}

	e.PushHistory()
	e.logger.Debug("editor created",
		"allowBlockElements", e.opts.AllowBlockElements,
		"maxHistory", e.opts.MaxHistory,
		"plugins", len(e.plugins),
	)
	return e, nil
}

func (e *Editor) configure() error {
	if e.decoded != nil {
		opts := *e.decoded
		if err := opts.Validate(); err != nil {
			return err
		}
		if opts.Extensions == nil {
			opts.Extensions = map[string]any{}
		}
		e.opts = opts
	} else {
		opts, err := config.Decode(e.rawConfig, e.recognized...)
		if err != nil {
			return err
		}
		e.opts = opts
	}
	e.rawConfig = nil
	e.decoded = nil
	return nil
}

// ID returns the editor's unique identifier.
func (e *Editor) ID() string {
	return e.id
}

// Document implements command.Env.
func (e *Editor) Document() host.Document {
	return e.doc
}

// Run implements command.Env. It runs fn as a transaction; calls made while
// a transaction is running join it.
func (e *Editor) Run(fn func() error) error {
	return e.tx.Run(fn)
}

// Running reports whether a transaction is in progress.
func (e *Editor) Running() bool {
	return e.tx.Running()
}

// Use installs a plugin: its commands, then its pipeline stages, then its
// listeners. A plugin name may be used once per editor.
func (e *Editor) Use(p plugin.Plugin) error {
	if p == nil {
		return plugin.ErrNilPlugin
	}
	if e.closed {
		return ErrClosed
	}
	name := p.Name()
	if e.loaded[name] {
		return fmt.Errorf("%w: %s", plugin.ErrAlreadyLoaded, name)
	}

	stages := &plugin.Stages{HTML: e.html, PlainText: e.plainText}
	if err := plugin.Install(p, e.registry, stages, e); err != nil {
		return err
	}

	e.loaded[name] = true
	e.plugins = append(e.plugins, p)
	e.logger.Debug("plugin installed", "plugin", name)
	return nil
}

// Plugins returns the names of the installed plugins in install order.
func (e *Editor) Plugins() []string {
	names := make([]string, len(e.plugins))
	for i, p := range e.plugins {
		names[i] = p.Name()
	}
	return names
}

// Registry returns the command registry.
func (e *Editor) Registry() *command.Registry {
	return e.registry
}

// Command resolves name to its highest-precedence command.
func (e *Editor) Command(name string) command.Command {
	return e.registry.Resolve(name)
}

// Execute runs the command registered under name.
func (e *Editor) Execute(name, value string) error {
	tier := e.registry.Lookup(name)
	e.metrics.CommandExecuted(tier.String())

	err := e.registry.Resolve(name).Execute(value)
	if err != nil {
		e.logger.Debug("command failed", "command", name, "tier", tier.String(), "error", err)
	}
	return err
}

// QueryState reports the state of the command registered under name.
func (e *Editor) QueryState(name string) bool {
	return e.registry.Resolve(name).QueryState()
}

// QueryEnabled reports whether the command registered under name can run.
func (e *Editor) QueryEnabled(name string) bool {
	return e.registry.Resolve(name).QueryEnabled()
}

// On subscribes fn to the named event.
func (e *Editor) On(name string, fn event.Listener) event.ID {
	return e.notifier.On(name, fn)
}

// Off removes a subscription.
func (e *Editor) Off(name string, id event.ID) bool {
	return e.notifier.Off(name, id)
}

// Trigger delivers the named event to its listeners.
func (e *Editor) Trigger(name string, args ...any) error {
	return e.notifier.Trigger(name, args...)
}

func (e *Editor) notify(name string) {
	if err := e.notifier.Trigger(name); err != nil {
		e.logger.Warn("listeners failed", "event", name, "error", err)
	}
}

// HTML returns the current content with the selection encoded as markers.
// This is the form pushed to history. Marker syntax already present in the
// document is dropped first, so the result always decodes.
func (e *Editor) HTML() string {
	sel, ok := e.doc.Selection()
	content, sel := marker.Clean(e.doc.HTML(), sel)
	if ok {
		content = marker.Insert(content, sel)
	}
	return content
}

// Content returns the current content without markers.
func (e *Editor) Content() string {
	return marker.Remove(e.doc.HTML())
}

// SetHTML replaces the content. Unless skipFormatters is set, the HTML
// pipeline is applied first; a failing stage leaves the content unchanged.
// No transaction runs, so nothing is pushed or notified.
func (e *Editor) SetHTML(html string, skipFormatters bool) error {
	if !skipFormatters {
		out, err := e.html.Apply(html)
		if err != nil {
			return &transaction.PipelineError{Err: err}
		}
		html = out
	}
	e.doc.SetHTML(marker.Remove(html))
	return nil
}

// SetContent replaces the content in a transaction, so it is formatted,
// pushed and notified like an edit.
func (e *Editor) SetContent(html string) error {
	return e.tx.Run(func() error {
		e.doc.SetHTML(marker.Remove(html))
		return nil
	})
}

// InsertHTML inserts markup at the selection through the insertHTML
// command. The whole document is formatted when the transaction ends.
func (e *Editor) InsertHTML(html string) error {
	return e.Execute("insertHTML", marker.Remove(html))
}

// InsertPlainText runs text through the plain-text pipeline and inserts the
// resulting markup.
func (e *Editor) InsertPlainText(text string) error {
	html, err := e.plainText.Apply(text)
	if err != nil {
		return &transaction.PipelineError{Err: err}
	}
	return e.InsertHTML(html)
}

// HandleInput runs a transaction for a mutation the host already applied.
func (e *Editor) HandleInput() error {
	return e.tx.Run(nil)
}

// PushHistory pushes the current content, selection included, unless it
// matches the current history entry. It returns whether an entry was
// appended.
func (e *Editor) PushHistory() bool {
	pushed := e.history.Push(history.Snapshot(e.HTML()))
	e.metrics.HistoryPushed(pushed, e.history.Len())
	if pushed {
		e.logger.Debug("history pushed", "position", e.history.Position(), "entries", e.history.Len())
	}
	return pushed
}

// Undo restores the previous history entry. It returns false at the
// oldest entry.
func (e *Editor) Undo() bool {
	s, ok := e.history.Undo()
	e.metrics.HistoryMoved("undo", ok)
	if ok {
		e.RestoreFromHistory(s)
	}
	return ok
}

// Redo restores the next history entry. It returns false at the newest
// entry.
func (e *Editor) Redo() bool {
	s, ok := e.history.Redo()
	e.metrics.HistoryMoved("redo", ok)
	if ok {
		e.RestoreFromHistory(s)
	}
	return ok
}

// Batch runs fn with history pushes coalesced, so every transaction fn
// commits undoes as one step. Nested batches join the outer one.
func (e *Editor) Batch(name string, fn func() error) error {
	return e.history.Grouped(name, fn)
}

// CanUndo implements builtin.HistoryEnv.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo implements builtin.HistoryEnv.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// RestoreFromHistory writes a snapshot's content to the document, selects
// the range its markers encode and emits content-changed.
//
// A snapshot whose markers cannot be decoded was not produced by this
// editor; RestoreFromHistory panics with ErrCorruptSnapshot.
func (e *Editor) RestoreFromHistory(s history.Snapshot) {
	content, sel, ok, err := marker.Extract(s.String())
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrCorruptSnapshot, err))
	}

	e.doc.SetHTML(content)
	if ok {
		e.doc.Select(sel)
	}
	e.notify(event.ContentChanged)
}

// Focus focuses the document and schedules a history push for the next
// Flush, once the host has settled the caret.
func (e *Editor) Focus() {
	e.doc.Focus()
	e.queue.Defer(PushAfterFocusTask, func() { e.PushHistory() })
}

// Blur removes focus and emits deactivated.
func (e *Editor) Blur() {
	e.doc.Blur()
	e.notify(event.Deactivated)
}

// Flush runs the deferred follow-up tasks and returns how many ran.
func (e *Editor) Flush() int {
	return e.queue.Flush()
}

// Pending returns the number of deferred tasks.
func (e *Editor) Pending() int {
	return e.queue.Pending()
}

// Options returns the decoded configuration.
func (e *Editor) Options() config.Options {
	return e.opts
}

// History returns the undo stack.
func (e *Editor) History() *history.History {
	return e.history
}

// Stats returns the transaction counters.
func (e *Editor) Stats() transaction.Stats {
	return e.tx.Stats()
}

// Close releases plugins that hold resources and drops every listener.
// Closing twice is a no-op.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for _, p := range e.plugins {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close plugin %s: %w", p.Name(), err))
			}
		}
	}
	if e.notifier != nil {
		e.notifier.Clear()
	}
	return errors.Join(errs...)
}

// assertConsistent checks the editor invariants after a transaction.
func (e *Editor) assertConsistent() {
	if n := e.history.Len(); n > 0 {
		if pos := e.history.Position(); pos < 0 || pos >= n {
			panic(fmt.Errorf("%w: history position %d outside [0,%d)", ErrInvariant, pos, n))
		}
	}
	if marker.Count(e.doc.HTML()) > 0 {
		panic(fmt.Errorf("%w: markers left in document", ErrInvariant))
	}
}

package transaction

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/host"
	"github.com/dshills/scribe/internal/marker"
	"github.com/dshills/scribe/internal/pipeline"
)

// Notifier delivers the content-changed event.
type Notifier interface {
	Trigger(name string, args ...any) error
}

// Observer is told about completed transactions.
type Observer interface {
	TransactionCompleted(d time.Duration, err error)
	TransactionCoalesced()
}

// Stats counts transactions since creation.
type Stats struct {
	Runs      int
	Coalesced int
	Failures  int
}

// Manager runs transactions against one document.
// It is not safe for concurrent use.
type Manager struct {
	doc      host.Document
	notifier Notifier
	pipeline *pipeline.Pipeline
	commit   func()
	check    func()
	observer Observer
	logger   *slog.Logger

	running bool
	stats   Stats

	// notifying is set while content-changed is delivered. A listener
	// that mutates through Run then marks the transaction dirty, and the
	// mutation is formatted and committed after delivery.
	notifying bool
	dirty     bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithPipeline sets the pipeline applied after every mutation.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(m *Manager) {
		m.pipeline = p
	}
}

// WithCommit sets the hook run after a successful format, before the
// notification. The editor uses it to push history.
func WithCommit(fn func()) Option {
	return func(m *Manager) {
		m.commit = fn
	}
}

// WithCheck sets a hook run at the very end of every outer transaction.
// The editor installs consistency assertions here in debug mode.
func WithCheck(fn func()) Option {
	return func(m *Manager) {
		m.check = fn
	}
}

// WithObserver sets the transaction observer.
func WithObserver(o Observer) Option {
	return func(m *Manager) {
		m.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates an idle manager.
func New(doc host.Document, notifier Notifier, opts ...Option) *Manager {
	m := &Manager{
		doc:      doc,
		notifier: notifier,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "transaction")
	return m
}

// Running reports whether a transaction is in progress.
func (m *Manager) Running() bool {
	return m.running
}

// Stats returns the transaction counters.
func (m *Manager) Stats() Stats {
	return m.stats
}

// Run executes fn as a transaction. fn may be nil when the document was
// already mutated, as with native input events.
//
// An error from fn aborts the transaction: nothing is formatted, committed
// or notified, and the error is returned.
//
// A Run made while another is in progress is coalesced into it. When that
// happens from a content-changed listener, the outer transaction formats
// and commits once more after delivery, without a second notification.
func (m *Manager) Run(fn func() error) error {
	if m.running {
		m.stats.Coalesced++
		if m.observer != nil {
			m.observer.TransactionCoalesced()
		}
		m.logger.Debug("coalesced nested transaction")
		if fn == nil {
			return nil
		}
		err := fn()
		if err == nil && m.notifying {
			m.dirty = true
		}
		return err
	}

	m.running = true
	defer func() {
		m.running = false
		m.notifying = false
		m.dirty = false
	}()

	start := time.Now()
	if fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}

	err := m.settle()

	m.notifying = true
	if nerr := m.notifier.Trigger(event.ContentChanged); nerr != nil {
		m.logger.Warn("content-changed listeners failed", "error", nerr)
	}
	m.notifying = false

	if m.dirty {
		m.dirty = false
		m.logger.Debug("listener mutated content during notification")
		if lerr := m.settle(); lerr != nil && err == nil {
			err = lerr
		}
	}

	m.stats.Runs++
	if m.observer != nil {
		m.observer.TransactionCompleted(time.Since(start), err)
	}
	if m.check != nil {
		m.check()
	}
	return err
}

// settle formats the document and commits on success.
func (m *Manager) settle() error {
	if err := m.format(); err != nil {
		m.stats.Failures++
		m.logger.Warn("formatting failed", "error", err)
		return err
	}
	if m.commit != nil {
		m.commit()
	}
	return nil
}

// format applies the pipeline to the document, carrying the selection
// through as markers.
func (m *Manager) format() error {
	m.clean()
	if m.pipeline == nil || m.pipeline.Len() == 0 {
		return nil
	}

	before := m.doc.HTML()
	sel, hasSel := m.doc.Selection()

	content := before
	if hasSel {
		content = marker.Insert(before, sel)
	}

	out, err := m.pipeline.Apply(content)
	if err != nil {
		m.restore(before, sel, hasSel)
		return &PipelineError{Err: err}
	}

	stripped, r, ok, err := marker.Extract(out)
	if err != nil {
		m.restore(before, sel, hasSel)
		return &PipelineError{Err: fmt.Errorf("%w: %w", ErrMarkersLost, err)}
	}

	if stripped == before {
		return nil
	}

	m.doc.SetHTML(stripped)
	if ok {
		m.doc.Select(r)
	}
	return nil
}

// clean removes reserved marker syntax a mutation wrote into the document,
// keeping the selection on the same visible position.
func (m *Manager) clean() {
	html := m.doc.HTML()
	if !marker.Dirty(html) {
		return
	}
	sel, hasSel := m.doc.Selection()
	cleaned, r := marker.Clean(html, sel)
	m.doc.SetHTML(cleaned)
	if hasSel {
		m.doc.Select(r)
	}
	m.logger.Warn("removed reserved marker syntax from document")
}

// restore puts back the pre-pipeline state if a stage touched the
// document directly.
func (m *Manager) restore(html string, sel host.Range, hasSel bool) {
	if m.doc.HTML() == html {
		return
	}
	m.doc.SetHTML(html)
	if hasSel {
		m.doc.Select(sel)
	}
}

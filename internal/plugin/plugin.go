package plugin

import (
	"github.com/dshills/scribe/internal/command"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/pipeline"
)

// CommandRegistrar installs command factories.
type CommandRegistrar interface {
	Register(tier command.Tier, name string, f command.Factory)
}

// StageRegistrar appends formatting stages.
type StageRegistrar interface {
	// AddHTMLStage appends a stage run over content after every
	// transaction and over inserted markup.
	AddHTMLStage(name string, stage pipeline.Stage)

	// AddPlainTextStage appends a stage run over inserted plain text
	// before the HTML stages.
	AddPlainTextStage(name string, stage pipeline.Stage)
}

// ListenerRegistrar subscribes to editor events.
type ListenerRegistrar interface {
	On(name string, fn event.Listener) event.ID
}

// Plugin is a capability extension.
type Plugin interface {
	Name() string
	RegisterCommands(r CommandRegistrar)
	RegisterPipelineStages(r StageRegistrar)
	RegisterListeners(r ListenerRegistrar)
}

// Func adapts functions to the Plugin interface. Nil functions are skipped.
type Func struct {
	PluginName string
	Commands   func(r CommandRegistrar)
	Stages     func(r StageRegistrar)
	Listeners  func(r ListenerRegistrar)
}

// Name implements Plugin.Name.
func (f *Func) Name() string {
	return f.PluginName
}

// RegisterCommands implements Plugin.RegisterCommands.
func (f *Func) RegisterCommands(r CommandRegistrar) {
	if f.Commands != nil {
		f.Commands(r)
	}
}

// RegisterPipelineStages implements Plugin.RegisterPipelineStages.
func (f *Func) RegisterPipelineStages(r StageRegistrar) {
	if f.Stages != nil {
		f.Stages(r)
	}
}

// RegisterListeners implements Plugin.RegisterListeners.
func (f *Func) RegisterListeners(r ListenerRegistrar) {
	if f.Listeners != nil {
		f.Listeners(r)
	}
}

// Stages is a StageRegistrar over an HTML and a plain-text pipeline.
type Stages struct {
	HTML      *pipeline.Pipeline
	PlainText *pipeline.Pipeline
}

// AddHTMLStage implements StageRegistrar.
func (s *Stages) AddHTMLStage(name string, stage pipeline.Stage) {
	s.HTML.Add(name, stage)
}

// AddPlainTextStage implements StageRegistrar.
func (s *Stages) AddPlainTextStage(name string, stage pipeline.Stage) {
	s.PlainText.Add(name, stage)
}

// Install calls the registration methods in their fixed order.
func Install(p Plugin, commands CommandRegistrar, stages StageRegistrar, listeners ListenerRegistrar) error {
	if p == nil {
		return ErrNilPlugin
	}
	p.RegisterCommands(commands)
	p.RegisterPipelineStages(stages)
	p.RegisterListeners(listeners)
	return nil
}

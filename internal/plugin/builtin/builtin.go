// Package builtin provides the plugins every editor can opt into.
package builtin

import (
	"net/url"
	"strings"

	"github.com/dshills/scribe/internal/command"
	"github.com/dshills/scribe/internal/formatter"
	"github.com/dshills/scribe/internal/host"
	"github.com/dshills/scribe/internal/plugin"
)

// HistoryEnv is the command environment of an editor with an undo manager.
type HistoryEnv interface {
	command.Env
	Undo() bool
	Redo() bool
	CanUndo() bool
	CanRedo() bool
}

// blockCommands are disabled in inline mode.
var blockCommands = []string{
	"insertOrderedList",
	"insertUnorderedList",
	"formatBlock",
	"indent",
	"outdent",
	"blockquote",
	"h1",
	"h2",
}

// Formatters installs the standard sanitising and plain-text stages.
func Formatters() plugin.Plugin {
	return &plugin.Func{
		PluginName: "formatters",
		Stages: func(r plugin.StageRegistrar) {
			r.AddPlainTextStage("escape-html", formatter.EscapeHTML())
			r.AddPlainTextStage("convert-newlines", formatter.ConvertNewlines())
			r.AddHTMLStage("sanitize", formatter.Sanitize(nil))
			r.AddHTMLStage("replace-nbsp", formatter.ReplaceNBSP())
		},
	}
}

// BlockMode keeps top-level content inside paragraphs.
func BlockMode() plugin.Plugin {
	return &plugin.Func{
		PluginName: "block-mode",
		Stages: func(r plugin.StageRegistrar) {
			r.AddHTMLStage("enforce-paragraphs", formatter.EnforceParagraphs())
		},
	}
}

// InlineMode replaces block editing with line breaks and disables
// block-level commands.
func InlineMode() plugin.Plugin {
	return &plugin.Func{
		PluginName: "inline-mode",
		Commands: func(r plugin.CommandRegistrar) {
			r.Register(command.TierDefault, "insertParagraph", command.NativeFactory("insertLineBreak"))
			for _, name := range blockCommands {
				r.Register(command.TierDefault, name, func(command.Env) command.Command {
					return command.Disabled{}
				})
			}
		},
	}
}

// History exposes undo and redo as commands.
func History() plugin.Plugin {
	return &plugin.Func{
		PluginName: "history",
		Commands: func(r plugin.CommandRegistrar) {
			r.Register(command.TierPlugin, "undo", historyCommand(HistoryEnv.Undo, HistoryEnv.CanUndo))
			r.Register(command.TierPlugin, "redo", historyCommand(HistoryEnv.Redo, HistoryEnv.CanRedo))
		},
	}
}

func historyCommand(move, can func(HistoryEnv) bool) command.Factory {
	return func(env command.Env) command.Command {
		h, ok := env.(HistoryEnv)
		if !ok {
			return command.Disabled{}
		}
		return &command.Func{
			Exec: func(string) error {
				move(h)
				return nil
			},
			Enabled: func() bool { return can(h) },
		}
	}
}

// Patches fixes native behaviour the editor does not want.
//
//   - bold is disabled inside headings, which are already bold
//   - createLink refuses empty and script URLs
func Patches() plugin.Plugin {
	return &plugin.Func{
		PluginName: "patches",
		Commands: func(r plugin.CommandRegistrar) {
			r.Register(command.TierPatch, "bold", boldPatch)
			r.Register(command.TierPatch, "createLink", linkPatch)
		},
	}
}

func boldPatch(env command.Env) command.Command {
	native := command.NewNative(env, "bold")
	return &command.Func{
		Exec: func(value string) error {
			if inHeading(env.Document()) {
				return command.ErrDisabled
			}
			return native.Execute(value)
		},
		State: native.QueryState,
		Enabled: func() bool {
			return !inHeading(env.Document()) && native.QueryEnabled()
		},
	}
}

func linkPatch(env command.Env) command.Command {
	native := command.NewNative(env, "createLink")
	return &command.Func{
		Exec: func(value string) error {
			if !safeURL(value) {
				return command.ErrDisabled
			}
			return native.Execute(value)
		},
		State:   native.QueryState,
		Enabled: native.QueryEnabled,
	}
}

func inHeading(doc host.Document) bool {
	sel, ok := doc.Selection()
	if !ok {
		return false
	}
	open := host.OpenElements(doc.HTML(), sel.Start)
	for _, h := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		if open[h] > 0 {
			return true
		}
	}
	return false
}

func safeURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return true
	default:
		return false
	}
}

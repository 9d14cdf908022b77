package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/scribe/internal/command"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/host"
	"github.com/dshills/scribe/internal/marker"
	"github.com/dshills/scribe/internal/plugin"
)

// Pipeline kinds accepted by scribe.stage.
const (
	StageHTML      = "html"
	StagePlainText = "text"
)

type commandDecl struct {
	name    string
	tier    command.Tier
	execute *lua.LFunction
	state   *lua.LFunction
	enabled *lua.LFunction
}

type stageDecl struct {
	kind string
	name string
	fn   *lua.LFunction
}

type listenerDecl struct {
	event string
	fn    *lua.LFunction
}

// Plugin is a plugin declared by a Lua script through the scribe module:
//
//	scribe.name("shout")
//	scribe.command("shout", {
//	    tier = "plugin",
//	    execute = function(value, doc) doc.insert_html("<b>" .. value .. "</b>") end,
//	    enabled = function(doc) return doc.selection() ~= nil end,
//	})
//	scribe.stage("html", "strip-comments", function(s) return (s:gsub("<!%-%-.-%-%->", "")) end)
//	scribe.on("content-changed", function() print("changed") end)
//
// Declarations are collected while the script runs; they take effect when
// the plugin is installed into an editor.
type Plugin struct {
	name  string
	state *State

	commands  []commandDecl
	stages    []stageDecl
	listeners []listenerDecl
}

var _ plugin.Plugin = (*Plugin)(nil)

// LoadFile runs the script at path and returns the plugin it declares. The
// plugin is named after the file unless the script calls scribe.name. A
// directory is loaded through its init.lua and named after the directory.
func LoadFile(path string, opts ...StateOption) (*Plugin, error) {
	return load(pluginName(path), func(s *State) error { return s.DoFile(path) }, opts...)
}

// LoadString runs code as a plugin script named name.
func LoadString(name, code string, opts ...StateOption) (*Plugin, error) {
	return load(name, func(s *State) error { return s.DoString(code) }, opts...)
}

func load(name string, run func(*State) error, opts ...StateOption) (*Plugin, error) {
	p := &Plugin{name: name, state: NewState(opts...)}
	p.installAPI()

	if err := run(p.state); err != nil {
		p.state.Close()
		return nil, &LoadError{Plugin: name, Err: err}
	}
	return p, nil
}

func (p *Plugin) installAPI() {
	L := p.state.L
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"name":    p.luaName,
		"command": p.luaCommand,
		"stage":   p.luaStage,
		"on":      p.luaOn,
	})
	L.SetGlobal("scribe", mod)
}

func (p *Plugin) luaName(L *lua.LState) int {
	p.name = L.CheckString(1)
	return 0
}

func (p *Plugin) luaCommand(L *lua.LState) int {
	decl := commandDecl{name: L.CheckString(1), tier: command.TierPlugin}
	spec := L.CheckTable(2)

	fn, ok := functionField(spec, "execute")
	if !ok {
		L.ArgError(2, "execute function required")
		return 0
	}
	decl.execute = fn
	decl.state, _ = functionField(spec, "state")
	decl.enabled, _ = functionField(spec, "enabled")

	if s, ok := stringField(spec, "tier"); ok {
		tier, err := parseTier(s)
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		decl.tier = tier
	}

	p.commands = append(p.commands, decl)
	return 0
}

func (p *Plugin) luaStage(L *lua.LState) int {
	kind := L.CheckString(1)
	if kind != StageHTML && kind != StagePlainText {
		L.ArgError(1, fmt.Sprintf("unknown pipeline %q", kind))
		return 0
	}
	p.stages = append(p.stages, stageDecl{
		kind: kind,
		name: L.CheckString(2),
		fn:   L.CheckFunction(3),
	})
	return 0
}

func (p *Plugin) luaOn(L *lua.LState) int {
	p.listeners = append(p.listeners, listenerDecl{
		event: L.CheckString(1),
		fn:    L.CheckFunction(2),
	})
	return 0
}

func parseTier(s string) (command.Tier, error) {
	switch s {
	case "default":
		return command.TierDefault, nil
	case "plugin":
		return command.TierPlugin, nil
	case "patch":
		return command.TierPatch, nil
	default:
		return 0, fmt.Errorf("unknown tier %q", s)
	}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string {
	return p.name
}

// RegisterCommands implements plugin.Plugin.
func (p *Plugin) RegisterCommands(r plugin.CommandRegistrar) {
	for _, decl := range p.commands {
		r.Register(decl.tier, decl.name, func(env command.Env) command.Command {
			return &luaCommand{p: p, decl: decl, env: env}
		})
	}
}

// RegisterPipelineStages implements plugin.Plugin.
func (p *Plugin) RegisterPipelineStages(r plugin.StageRegistrar) {
	for _, decl := range p.stages {
		stage := p.stage(decl)
		if decl.kind == StagePlainText {
			r.AddPlainTextStage(decl.name, stage)
		} else {
			r.AddHTMLStage(decl.name, stage)
		}
	}
}

// RegisterListeners implements plugin.Plugin.
func (p *Plugin) RegisterListeners(r plugin.ListenerRegistrar) {
	for _, decl := range p.listeners {
		r.On(decl.event, p.listener(decl.fn))
	}
}

// Close releases the Lua state.
func (p *Plugin) Close() error {
	return p.state.Close()
}

func (p *Plugin) stage(decl stageDecl) func(string) (string, error) {
	return func(content string) (string, error) {
		rets, err := p.state.Call(decl.fn, 1, lua.LString(content))
		if err != nil {
			return "", err
		}
		s, ok := rets[0].(lua.LString)
		if !ok {
			return "", fmt.Errorf("%w: stage %q returned %s", ErrBadReturn, decl.name, rets[0].Type())
		}
		return string(s), nil
	}
}

// luaCommand runs a declared command against one editor.
type luaCommand struct {
	p    *Plugin
	decl commandDecl
	env  command.Env
}

func (c *luaCommand) Execute(value string) error {
	return c.env.Run(func() error {
		_, err := c.p.state.Call(c.decl.execute, 0, lua.LString(value), c.p.docTable(c.env.Document()))
		return err
	})
}

func (c *luaCommand) QueryState() bool {
	if c.decl.state == nil {
		return false
	}
	return c.query(c.decl.state, false)
}

func (c *luaCommand) QueryEnabled() bool {
	if c.decl.enabled == nil {
		return true
	}
	return c.query(c.decl.enabled, true)
}

func (c *luaCommand) query(fn *lua.LFunction, fallback bool) bool {
	rets, err := c.p.state.Call(fn, 1, c.p.docTable(c.env.Document()))
	if err != nil {
		c.p.state.logger.Warn("query failed", "command", c.decl.name, "error", err)
		return fallback
	}
	return lua.LVAsBool(rets[0])
}

// docTable exposes the document to Lua. Functions are called with dot
// syntax: doc.html(), doc.exec("bold").
func (p *Plugin) docTable(doc host.Document) *lua.LTable {
	L := p.state.L
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"html": func(L *lua.LState) int {
			L.Push(lua.LString(doc.HTML()))
			return 1
		},
		"set_html": func(L *lua.LState) int {
			doc.SetHTML(marker.Remove(L.CheckString(1)))
			return 0
		},
		"selection": func(L *lua.LState) int {
			r, ok := doc.Selection()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(r.Start))
			L.Push(lua.LNumber(r.End))
			return 2
		},
		"select": func(L *lua.LState) int {
			start := L.CheckInt(1)
			doc.Select(host.Range{Start: start, End: L.OptInt(2, start)})
			return 0
		},
		"exec": func(L *lua.LState) int {
			L.Push(lua.LBool(doc.Exec(L.CheckString(1), L.OptString(2, ""))))
			return 1
		},
		"query_state": func(L *lua.LState) int {
			L.Push(lua.LBool(doc.QueryState(L.CheckString(1))))
			return 1
		},
		"insert_html": func(L *lua.LState) int {
			L.Push(lua.LBool(doc.Exec("insertHTML", marker.Remove(L.CheckString(1)))))
			return 1
		},
	})
}

func (p *Plugin) listener(fn *lua.LFunction) event.Listener {
	return func(args ...any) error {
		lvs := make([]lua.LValue, len(args))
		for i, a := range args {
			lvs[i] = toLuaValue(p.state.L, a)
		}
		_, err := p.state.Call(fn, 0, lvs...)
		return err
	}
}

package lua

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/scribe/internal/command"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/host"
	"github.com/dshills/scribe/internal/marker"
	"github.com/dshills/scribe/internal/pipeline"
	"github.com/dshills/scribe/internal/plugin"
)

type testEnv struct {
	doc  *host.Memory
	runs int
}

func (e *testEnv) Document() host.Document { return e.doc }

func (e *testEnv) Run(fn func() error) error {
	e.runs++
	return fn()
}

type installed struct {
	registry *command.Registry
	stages   *plugin.Stages
	notifier *event.Notifier
}

func install(t *testing.T, env command.Env, p plugin.Plugin) installed {
	t.Helper()
	in := installed{
		registry: command.NewRegistry(env),
		stages:   &plugin.Stages{HTML: pipeline.New(), PlainText: pipeline.New()},
		notifier: event.NewNotifier(),
	}
	require.NoError(t, plugin.Install(p, in.registry, in.stages, in.notifier))
	return in
}

func loadString(t *testing.T, code string, opts ...StateOption) *Plugin {
	t.Helper()
	p, err := LoadString("test", code, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestCommandDeclaration(t *testing.T) {
	p := loadString(t, `
		scribe.command("shout", {
			tier = "patch",
			execute = function(value, doc)
				doc.insert_html("<b>" .. value .. "</b>")
			end,
			state = function(doc) return doc.html() == "<p>a<b>hi</b></p>" end,
			enabled = function(doc) return doc.selection() ~= nil end,
		})
	`)
	env := &testEnv{doc: host.NewMemory("<p>a</p>")}
	in := install(t, env, p)

	assert.Equal(t, command.TierPatch, in.registry.Lookup("shout"))

	cmd := in.registry.Resolve("shout")
	assert.False(t, cmd.QueryEnabled())
	assert.False(t, cmd.QueryState())

	env.doc.Select(host.Range{Start: 4, End: 4})
	assert.True(t, cmd.QueryEnabled())

	require.NoError(t, cmd.Execute("hi"))
	assert.Equal(t, "<p>a<b>hi</b></p>", env.doc.HTML())
	assert.Equal(t, 1, env.runs)
	assert.True(t, cmd.QueryState())
}

func TestCommandDefaults(t *testing.T) {
	p := loadString(t, `scribe.command("noop", { execute = function() end })`)
	env := &testEnv{doc: host.NewMemory("")}
	in := install(t, env, p)

	assert.Equal(t, command.TierPlugin, in.registry.Lookup("noop"))
	cmd := in.registry.Resolve("noop")
	assert.True(t, cmd.QueryEnabled())
	assert.False(t, cmd.QueryState())
}

func TestCommandError(t *testing.T) {
	p := loadString(t, `scribe.command("fail", { execute = function() error("boom") end })`)
	in := install(t, &testEnv{doc: host.NewMemory("")}, p)

	err := in.registry.Resolve("fail").Execute("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestDocumentAPI(t *testing.T) {
	p := loadString(t, `
		scribe.command("rewrite", {
			execute = function(value, doc)
				doc.set_html("<p>abc</p>")
				doc.select(4, 5)
				local s, e = doc.selection()
				assert(s == 4 and e == 5)
				assert(doc.exec("bold"))
				assert(doc.query_state("bold"))
				assert(not doc.exec("noSuchCommand"))
			end,
		})
	`)
	env := &testEnv{doc: host.NewMemory("")}
	in := install(t, env, p)

	require.NoError(t, in.registry.Resolve("rewrite").Execute(""))
	assert.Equal(t, "<p>a<b>b</b>c</p>", env.doc.HTML())
}

func TestDocumentAPIDropsMarkers(t *testing.T) {
	p := loadString(t, `
		scribe.command("paste", {
			execute = function(value, doc)
				doc.set_html("<p>" .. value .. "</p>")
				doc.select(3)
				doc.insert_html(value)
			end,
		})
	`)
	env := &testEnv{doc: host.NewMemory("")}
	in := install(t, env, p)

	require.NoError(t, in.registry.Resolve("paste").Execute(marker.Token+"x"+marker.Token))
	assert.Equal(t, "<p>xx</p>", env.doc.HTML())
	assert.Zero(t, marker.Count(env.doc.HTML()))
}

func TestStages(t *testing.T) {
	p := loadString(t, `
		scribe.stage("html", "upper", function(s) return s:upper() end)
		scribe.stage("text", "trim", function(s) return (s:gsub("^%s+", "")) end)
	`)
	in := install(t, &testEnv{doc: host.NewMemory("")}, p)

	assert.Equal(t, []string{"upper"}, in.stages.HTML.Names())
	assert.Equal(t, []string{"trim"}, in.stages.PlainText.Names())

	out, err := in.stages.HTML.Apply("<p>x</p>")
	require.NoError(t, err)
	assert.Equal(t, "<P>X</P>", out)

	out, err = in.stages.PlainText.Apply("  hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestStageBadReturn(t *testing.T) {
	p := loadString(t, `scribe.stage("html", "broken", function(s) return 42 end)`)
	in := install(t, &testEnv{doc: host.NewMemory("")}, p)

	_, err := in.stages.HTML.Apply("<p>x</p>")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadReturn)

	var stageErr *pipeline.Error
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "broken", stageErr.Stage)
}

func TestListeners(t *testing.T) {
	p := loadString(t, `
		scribe.on("content-changed", function(a, b)
			seen = a .. ":" .. tostring(b)
		end)
	`)
	in := install(t, &testEnv{doc: host.NewMemory("")}, p)

	require.NoError(t, in.notifier.Trigger(event.ContentChanged, "x", 2))
	assert.Equal(t, glua.LString("x:2"), p.state.L.GetGlobal("seen"))
}

func TestName(t *testing.T) {
	p := loadString(t, `scribe.name("renamed")`)
	assert.Equal(t, "renamed", p.Name())

	p = loadString(t, ``)
	assert.Equal(t, "test", p.Name())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"syntax", `scribe.command(`},
		{"missing execute", `scribe.command("x", {})`},
		{"unknown tier", `scribe.command("x", { tier = "core", execute = function() end })`},
		{"unknown pipeline", `scribe.stage("css", "x", function(s) return s end)`},
		{"runtime", `error("nope")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LoadString("bad", tt.code)
			require.Error(t, err)
			assert.Nil(t, p)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, "bad", loadErr.Plugin)
		})
	}
}

func TestSandbox(t *testing.T) {
	loadString(t, `
		assert(dofile == nil)
		assert(loadfile == nil)
		assert(load == nil)
		assert(loadstring == nil)
		assert(require == nil)
		assert(io == nil)
		assert(os == nil)
		assert(debug == nil)
		assert(string ~= nil and table ~= nil and math ~= nil)
	`)
}

func TestPrintGoesToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	loadString(t, `print("hello", 1)`, WithLogger(logger))
	assert.Contains(t, buf.String(), "hello")
}

func TestExecutionTimeout(t *testing.T) {
	_, err := LoadString("spin", `while true do end`, WithExecutionTimeout(50*time.Millisecond))
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	p, err := LoadString("closing", `scribe.stage("html", "id", function(s) return s end)`)
	require.NoError(t, err)
	in := install(t, &testEnv{doc: host.NewMemory("")}, p)

	require.NoError(t, p.Close())
	assert.True(t, p.state.IsClosed())
	require.NoError(t, p.Close())

	_, err = in.stages.HTML.Apply("x")
	assert.ErrorIs(t, err, ErrStateClosed)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.lua"), `scribe.command("b", { execute = function() end })`)
	writeFile(t, filepath.Join(dir, "a", entryFile), `scribe.command("a", { execute = function() end })`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "empty"), 0o755))

	single := filepath.Join(t.TempDir(), "b.lua")
	writeFile(t, single, ``)

	found, err := Discover(single, dir, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, []string{single, filepath.Join(dir, "a", entryFile)}, found)

	plugins, err := LoadAll([]string{dir})
	require.NoError(t, err)
	require.Len(t, plugins, 2)
	assert.Equal(t, "a", plugins[0].Name())
	assert.Equal(t, "b", plugins[1].Name())
	for _, p := range plugins {
		p.Close()
	}
}

func TestLoadAllError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.lua"), ``)
	writeFile(t, filepath.Join(dir, "b.lua"), `error("broken")`)

	_, err := LoadAll([]string{dir})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "b", loadErr.Plugin)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

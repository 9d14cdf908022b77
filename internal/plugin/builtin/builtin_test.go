package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/scribe/internal/command"
	"github.com/dshills/scribe/internal/event"
	"github.com/dshills/scribe/internal/host"
	"github.com/dshills/scribe/internal/pipeline"
	"github.com/dshills/scribe/internal/plugin"
)

type fakeEnv struct {
	doc   *host.Memory
	undos int
	redos int
}

func (e *fakeEnv) Document() host.Document   { return e.doc }
func (e *fakeEnv) Run(fn func() error) error { return fn() }
func (e *fakeEnv) Undo() bool                { e.undos++; return true }
func (e *fakeEnv) Redo() bool                { e.redos++; return true }
func (e *fakeEnv) CanUndo() bool             { return e.undos == 0 }
func (e *fakeEnv) CanRedo() bool             { return false }

type plainEnv struct{ doc *host.Memory }

func (e *plainEnv) Document() host.Document   { return e.doc }
func (e *plainEnv) Run(fn func() error) error { return fn() }

func install(t *testing.T, env command.Env, p plugin.Plugin) (*command.Registry, *plugin.Stages) {
	t.Helper()
	reg := command.NewRegistry(env)
	stages := &plugin.Stages{HTML: pipeline.New(), PlainText: pipeline.New()}
	require.NoError(t, plugin.Install(p, reg, stages, event.NewNotifier()))
	return reg, stages
}

func TestFormatters(t *testing.T) {
	_, stages := install(t, &plainEnv{doc: host.NewMemory("")}, Formatters())
	assert.Equal(t, []string{"sanitize", "replace-nbsp"}, stages.HTML.Names())
	assert.Equal(t, []string{"escape-html", "convert-newlines"}, stages.PlainText.Names())

	out, err := stages.PlainText.Apply("a & b\nc")
	require.NoError(t, err)
	assert.Equal(t, "a &amp; b<br>c", out)
}

func TestBlockMode(t *testing.T) {
	_, stages := install(t, &plainEnv{doc: host.NewMemory("")}, BlockMode())
	out, err := stages.HTML.Apply("text")
	require.NoError(t, err)
	assert.Equal(t, "<p>text</p>", out)
}

func TestInlineMode(t *testing.T) {
	env := &plainEnv{doc: host.NewMemory("a")}
	env.doc.Focus()
	reg, _ := install(t, env, InlineMode())

	require.NoError(t, reg.Resolve("insertParagraph").Execute(""))
	assert.Equal(t, "a<br>", env.doc.HTML())

	list := reg.Resolve("insertOrderedList")
	assert.False(t, list.QueryEnabled())
	assert.ErrorIs(t, list.Execute(""), command.ErrDisabled)
}

func TestHistoryCommands(t *testing.T) {
	env := &fakeEnv{doc: host.NewMemory("")}
	reg, _ := install(t, env, History())
	assert.Equal(t, command.TierPlugin, reg.Lookup("undo"))

	undo := reg.Resolve("undo")
	assert.True(t, undo.QueryEnabled())
	require.NoError(t, undo.Execute(""))
	assert.Equal(t, 1, env.undos)
	assert.False(t, undo.QueryEnabled())

	redo := reg.Resolve("redo")
	assert.False(t, redo.QueryEnabled())
	require.NoError(t, redo.Execute(""))
	assert.Equal(t, 1, env.redos)
}

func TestHistoryCommandsWithoutHistory(t *testing.T) {
	reg, _ := install(t, &plainEnv{doc: host.NewMemory("")}, History())
	assert.ErrorIs(t, reg.Resolve("undo").Execute(""), command.ErrDisabled)
}

func TestBoldPatchInHeading(t *testing.T) {
	env := &plainEnv{doc: host.NewMemory("<h1>title</h1><p>body</p>")}
	reg, _ := install(t, env, Patches())

	env.doc.Select(host.Range{Start: 4, End: 9})
	bold := reg.Resolve("bold")
	assert.False(t, bold.QueryEnabled())
	assert.ErrorIs(t, bold.Execute(""), command.ErrDisabled)

	env.doc.Select(host.Range{Start: 17, End: 21})
	assert.True(t, bold.QueryEnabled())
	require.NoError(t, bold.Execute(""))
	assert.Equal(t, "<h1>title</h1><p><b>body</b></p>", env.doc.HTML())
	assert.True(t, bold.QueryState())
}

func TestLinkPatch(t *testing.T) {
	env := &plainEnv{doc: host.NewMemory("<p>go</p>")}
	env.doc.Select(host.Range{Start: 3, End: 5})
	reg, _ := install(t, env, Patches())
	link := reg.Resolve("createLink")

	for _, bad := range []string{"", "  ", "javascript:alert(1)", "data:text/html,x", "%zz"} {
		assert.ErrorIs(t, link.Execute(bad), command.ErrDisabled, bad)
	}
	require.NoError(t, link.Execute("https://go.dev"))
	assert.Equal(t, `<p><a href="https://go.dev">go</a></p>`, env.doc.HTML())
}

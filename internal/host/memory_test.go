package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySelectClamps(t *testing.T) {
	m := NewMemory("<p>ab</p>")
	m.Select(Range{Start: 20, End: -3})

	r, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, Range{Start: 0, End: 9}, r)
}

func TestMemorySetHTMLClearsSelection(t *testing.T) {
	m := NewMemory("<p>a</p>")
	m.Select(Range{Start: 4, End: 4})
	m.SetHTML("<p>b</p>")

	_, ok := m.Selection()
	assert.False(t, ok)
	assert.Equal(t, "<p>b</p>", m.HTML())
}

func TestMemoryExecWithoutSelection(t *testing.T) {
	m := NewMemory("<p>a</p>")
	assert.False(t, m.Exec("bold", ""))
	assert.False(t, m.QueryEnabled("bold"))
}

func TestMemoryBoldToggle(t *testing.T) {
	m := NewMemory("<p>hello</p>")
	m.Select(Range{Start: 3, End: 8})

	require.True(t, m.Exec("bold", ""))
	assert.Equal(t, "<p><b>hello</b></p>", m.HTML())
	assert.True(t, m.QueryState("bold"))

	require.True(t, m.Exec("bold", ""))
	assert.Equal(t, "<p>hello</p>", m.HTML())
	assert.False(t, m.QueryState("bold"))
}

func TestMemoryQueryStateRecognisesStrong(t *testing.T) {
	m := NewMemory("<p><strong>hi</strong></p>")
	m.Select(Range{Start: 11, End: 11})
	assert.True(t, m.QueryState("bold"))
	assert.False(t, m.QueryState("italic"))
	assert.False(t, m.QueryState("insertHTML"))
}

func TestMemoryCreateLink(t *testing.T) {
	m := NewMemory("<p>go</p>")
	m.Select(Range{Start: 3, End: 5})

	assert.False(t, m.Exec("createLink", ""))
	require.True(t, m.Exec("createLink", "https://go.dev"))
	assert.Equal(t, `<p><a href="https://go.dev">go</a></p>`, m.HTML())
	assert.True(t, m.QueryState("createLink"))

	require.True(t, m.Exec("unlink", ""))
	assert.Equal(t, "<p>go</p>", m.HTML())
	r, _ := m.Selection()
	assert.Equal(t, Range{Start: 3, End: 5}, r)
	assert.False(t, m.Exec("unlink", ""))
}

func TestMemoryRemoveFormat(t *testing.T) {
	m := NewMemory("<p><b>a</b><i>b</i></p>")
	m.Select(Range{Start: 3, End: 19})

	require.True(t, m.Exec("removeFormat", ""))
	assert.Equal(t, "<p>ab</p>", m.HTML())
}

func TestMemoryInsertAndDelete(t *testing.T) {
	m := NewMemory("<p></p>")
	m.Select(Range{Start: 3, End: 3})

	require.True(t, m.Exec("insertText", "a<b"))
	assert.Equal(t, "<p>a&lt;b</p>", m.HTML())

	require.True(t, m.Exec("delete", ""))
	assert.Equal(t, "<p>a&lt;</p>", m.HTML())

	m.Select(Range{Start: 3, End: 3})
	assert.False(t, m.Exec("delete", ""), "caret after a tag deletes nothing")

	m.Select(Range{Start: 3, End: 3})
	require.True(t, m.Exec("insertHTML", "<i>x</i>"))
	assert.Equal(t, "<p><i>x</i>a&lt;</p>", m.HTML())
}

func TestMemoryInsertParagraph(t *testing.T) {
	m := NewMemory("<p>ab</p>")
	m.Select(Range{Start: 4, End: 4})

	require.True(t, m.Exec("insertParagraph", ""))
	assert.Equal(t, "<p>a</p><p>b</p>", m.HTML())

	m = NewMemory("")
	m.Focus()
	require.True(t, m.Exec("insertParagraph", ""))
	assert.Equal(t, "<p></p>", m.HTML())
	r, _ := m.Selection()
	assert.Equal(t, Range{Start: 3, End: 3}, r)
}

func TestMemoryTypeFiresInput(t *testing.T) {
	m := NewMemory("<p></p>")
	calls := 0
	m.OnInput(func() { calls++ })

	assert.False(t, m.Type("x"), "no selection yet")

	m.Select(Range{Start: 3, End: 3})
	require.True(t, m.Type("x"))
	require.True(t, m.Type("y"))
	assert.Equal(t, "<p>xy</p>", m.HTML())
	assert.Equal(t, 2, calls)
}

func TestMemoryFocusPlacesCaret(t *testing.T) {
	m := NewMemory("<p>a</p>")
	m.Focus()
	assert.True(t, m.Focused())

	r, ok := m.Selection()
	require.True(t, ok)
	assert.Equal(t, Range{Start: 8, End: 8}, r)

	m.Blur()
	assert.False(t, m.Focused())
}

func TestMemoryUnknownCommand(t *testing.T) {
	m := NewMemory("<p>a</p>")
	m.Focus()
	assert.False(t, m.Exec("insertOrderedList", ""))
	assert.False(t, m.QueryEnabled("insertOrderedList"))
}

func TestOpenElements(t *testing.T) {
	html := "<h1>a<b>b</b></h1><p>c"
	assert.Equal(t, 1, OpenElements(html, 6)["h1"])
	assert.Equal(t, 1, OpenElements(html, 9)["b"])
	assert.Equal(t, 0, OpenElements(html, 13)["b"])
	assert.Equal(t, 1, OpenElements(html, len(html))["p"])
	assert.Equal(t, 0, OpenElements(html, len(html))["h1"])
	assert.Empty(t, OpenElements(html, -1))
	assert.Equal(t, 1, OpenElements(html, 100)["p"])
}

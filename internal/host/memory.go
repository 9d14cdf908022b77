package host

import (
	"strings"
	"unicode/utf8"

	xhtml "golang.org/x/net/html"
)

// inlineTags maps native formatting command names to the tags they produce.
// The first tag is the one written; the rest are recognised when querying state.
var inlineTags = map[string][]string{
	"bold":          {"b", "strong"},
	"italic":        {"i", "em"},
	"underline":     {"u"},
	"strikeThrough": {"s", "strike"},
	"createLink":    {"a"},
}

// nativeCommands lists every command Memory can execute.
var nativeCommands = map[string]bool{
	"bold":            true,
	"italic":          true,
	"underline":       true,
	"strikeThrough":   true,
	"createLink":      true,
	"unlink":          true,
	"removeFormat":    true,
	"insertHTML":      true,
	"insertText":      true,
	"delete":          true,
	"insertParagraph": true,
	"insertLineBreak": true,
}

// Memory is an in-memory editable region.
//
// It is not safe for concurrent use; like a browser document it is driven
// from a single event loop.
type Memory struct {
	html    string
	sel     Range
	hasSel  bool
	focused bool

	inputFns []func()
}

// NewMemory creates a region holding the given markup, with no selection.
func NewMemory(html string) *Memory {
	return &Memory{html: html}
}

// HTML returns the current markup.
func (m *Memory) HTML() string {
	return m.html
}

// SetHTML replaces the markup and clears the selection.
func (m *Memory) SetHTML(html string) {
	m.html = html
	m.hasSel = false
	m.sel = Range{}
}

// Selection returns the current selection.
func (m *Memory) Selection() (Range, bool) {
	return m.sel, m.hasSel
}

// Select sets the selection, clamping both ends to the markup.
func (m *Memory) Select(r Range) {
	r = r.Normalize()
	m.sel = Range{Start: m.clamp(r.Start), End: m.clamp(r.End)}
	m.hasSel = true
}

// Focus gives the region focus. A region without a selection gets a caret
// at the end of its content.
func (m *Memory) Focus() {
	m.focused = true
	if !m.hasSel {
		m.Select(Range{Start: len(m.html), End: len(m.html)})
	}
}

// Blur removes focus. The selection is kept.
func (m *Memory) Blur() {
	m.focused = false
}

// Focused reports whether the region has focus.
func (m *Memory) Focused() bool {
	return m.focused
}

// OnInput registers a callback fired after every simulated input event.
func (m *Memory) OnInput(fn func()) {
	m.inputFns = append(m.inputFns, fn)
}

// Type simulates keyboard input: the selection is replaced with the escaped
// text, the caret moves after it and input callbacks fire.
// Returns false if the region has no selection.
func (m *Memory) Type(text string) bool {
	if !m.hasSel {
		return false
	}
	m.replaceSelection(xhtml.EscapeString(text))
	for _, fn := range m.inputFns {
		fn()
	}
	return true
}

// Exec runs a native command at the current selection.
func (m *Memory) Exec(name, value string) bool {
	if !m.hasSel || !nativeCommands[name] {
		return false
	}

	switch name {
	case "bold", "italic", "underline", "strikeThrough":
		return m.toggleInline(inlineTags[name][0], "")
	case "createLink":
		if value == "" {
			return false
		}
		return m.toggleInline("a", ` href="`+xhtml.EscapeString(value)+`"`)
	case "unlink":
		return m.unlink()
	case "removeFormat":
		return m.removeFormat()
	case "insertHTML":
		m.replaceSelection(value)
	case "insertText":
		m.replaceSelection(xhtml.EscapeString(value))
	case "delete":
		return m.deleteBackward()
	case "insertParagraph":
		if m.openTags(m.sel.Start)["p"] > 0 {
			m.replaceSelection("</p><p>")
		} else {
			m.replaceSelection("<p></p>")
			m.Select(Range{Start: m.sel.Start - 4, End: m.sel.Start - 4})
		}
	case "insertLineBreak":
		m.replaceSelection("<br>")
	}
	return true
}

// QueryState reports whether the selection start sits inside markup
// produced by the named command.
func (m *Memory) QueryState(name string) bool {
	tags, ok := inlineTags[name]
	if !ok || !m.hasSel {
		return false
	}
	open := m.openTags(m.sel.Start)
	for _, tag := range tags {
		if open[tag] > 0 {
			return true
		}
	}
	return false
}

// QueryEnabled reports whether the named command can run now.
func (m *Memory) QueryEnabled(name string) bool {
	return m.hasSel && nativeCommands[name]
}

// toggleInline wraps the selection in tag, or unwraps it when the selection
// is exactly enclosed by that tag.
func (m *Memory) toggleInline(tag, attrs string) bool {
	r := m.sel
	if r.IsEmpty() {
		return false
	}

	open := "<" + tag + attrs + ">"
	closing := "</" + tag + ">"
	before := m.html[:r.Start]
	after := m.html[r.End:]

	if strings.HasSuffix(before, open) && strings.HasPrefix(after, closing) {
		m.html = before[:len(before)-len(open)] + m.html[r.Start:r.End] + after[len(closing):]
		m.sel = Range{Start: r.Start - len(open), End: r.End - len(open)}
		return true
	}

	m.html = before + open + m.html[r.Start:r.End] + closing + after
	m.sel = Range{Start: r.Start + len(open), End: r.End + len(open)}
	return true
}

// unlink removes the anchor exactly enclosing the selection.
func (m *Memory) unlink() bool {
	r := m.sel
	before := m.html[:r.Start]
	after := m.html[r.End:]
	if !strings.HasSuffix(before, ">") || !strings.HasPrefix(after, "</a>") {
		return false
	}
	open := strings.LastIndex(before, "<a")
	if open < 0 || strings.Contains(before[open:len(before)-1], ">") {
		return false
	}
	tag := before[open:]
	if tag != "<a>" && !strings.HasPrefix(tag, "<a ") {
		return false
	}

	m.html = before[:open] + m.html[r.Start:r.End] + after[len("</a>"):]
	m.sel = Range{Start: r.Start - len(tag), End: r.End - len(tag)}
	return true
}

// removeFormat strips inline formatting tags inside the selection.
func (m *Memory) removeFormat() bool {
	r := m.sel
	if r.IsEmpty() {
		return false
	}

	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(m.html[r.Start:r.End]))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		raw := string(z.Raw())
		if tt == xhtml.StartTagToken || tt == xhtml.EndTagToken {
			name, _ := z.TagName()
			if isInlineFormatTag(string(name)) {
				continue
			}
		}
		b.WriteString(raw)
	}

	stripped := b.String()
	m.html = m.html[:r.Start] + stripped + m.html[r.End:]
	m.sel = Range{Start: r.Start, End: r.Start + len(stripped)}
	return true
}

// deleteBackward removes the selection, or the rune before a collapsed caret.
// A caret directly after a tag does not delete anything.
func (m *Memory) deleteBackward() bool {
	r := m.sel
	if !r.IsEmpty() {
		m.replaceSelection("")
		return true
	}
	if r.Start == 0 || m.html[r.Start-1] == '>' {
		return false
	}
	_, size := utf8.DecodeLastRuneInString(m.html[:r.Start])
	m.html = m.html[:r.Start-size] + m.html[r.Start:]
	m.sel = Range{Start: r.Start - size, End: r.Start - size}
	return true
}

// replaceSelection replaces the selected markup and collapses the caret
// after the inserted text.
func (m *Memory) replaceSelection(s string) {
	r := m.sel
	m.html = m.html[:r.Start] + s + m.html[r.End:]
	pos := r.Start + len(s)
	m.sel = Range{Start: pos, End: pos}
}

// openTags counts the elements left open by the markup before offset.
func (m *Memory) openTags(offset int) map[string]int {
	return OpenElements(m.html, offset)
}

func (m *Memory) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(m.html) {
		return len(m.html)
	}
	return offset
}

func isInlineFormatTag(name string) bool {
	for _, tags := range inlineTags {
		for _, tag := range tags {
			if tag == name {
				return true
			}
		}
	}
	return false
}

var (
	_ Document    = (*Memory)(nil)
	_ InputSource = (*Memory)(nil)
)

// OpenElements counts, by tag name, the elements left open by the markup
// before offset. Void elements such as br are counted as opened, so callers
// should only look up container tags.
func OpenElements(html string, offset int) map[string]int {
	if offset > len(html) {
		offset = len(html)
	}
	if offset < 0 {
		offset = 0
	}

	open := make(map[string]int)
	z := xhtml.NewTokenizer(strings.NewReader(html[:offset]))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return open
		case xhtml.StartTagToken:
			name, _ := z.TagName()
			open[string(name)]++
		case xhtml.EndTagToken:
			name, _ := z.TagName()
			if open[string(name)] > 0 {
				open[string(name)]--
			}
		}
	}
}

package host

// Range is a selection expressed as byte offsets into the document markup.
// Start == End denotes a collapsed caret.
type Range struct {
	Start int
	End   int
}

// IsEmpty returns true if the range is a collapsed caret.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Normalize returns the range with Start <= End.
func (r Range) Normalize() Range {
	if r.Start > r.End {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Document is the editable region as seen by the editor.
type Document interface {
	// HTML returns the serialized content of the region.
	HTML() string

	// SetHTML replaces the content. The selection is cleared.
	SetHTML(html string)

	// Selection returns the current selection, if the region has one.
	Selection() (Range, bool)

	// Select sets the selection. Offsets are clamped to the content.
	Select(r Range)

	// Exec runs a native mutation primitive by name and reports whether
	// the host performed it.
	Exec(name, value string) bool

	// QueryState reports whether the named command is active at the selection.
	QueryState(name string) bool

	// QueryEnabled reports whether the named command can run at the selection.
	QueryEnabled(name string) bool

	// Focus gives the region input focus.
	Focus()

	// Blur removes input focus.
	Blur()
}

// InputSource is implemented by hosts that report native mutations.
// The callback fires once per completed native input event.
type InputSource interface {
	OnInput(fn func())
}

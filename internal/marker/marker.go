// Package marker encodes a selection inside serialized content.
//
// A marker is the empty element Token. One marker encodes a collapsed caret,
// two encode the start and end of a range. Markers carry no visible content,
// so inserting or stripping them never changes what the user sees.
package marker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/scribe/internal/host"
)

// Token is the reserved marker element. The formatting pipeline never
// produces it.
const Token = `<em class="scribe-marker"></em>`

// signature identifies marker fragments, complete or not.
const signature = `class="scribe-marker"`

// ErrMalformed is returned for content holding partial tokens or more
// markers than a selection needs.
var ErrMalformed = errors.New("malformed selection markers")

// Insert places markers for r into content. A collapsed range gets one
// marker. Offsets are clamped to the content.
func Insert(content string, r host.Range) string {
	r = r.Normalize()
	start := clamp(r.Start, len(content))
	end := clamp(r.End, len(content))

	if start == end {
		return content[:start] + Token + content[start:]
	}
	return content[:start] + Token + content[start:end] + Token + content[end:]
}

// Strip removes every complete marker token.
func Strip(content string) string {
	if !strings.Contains(content, Token) {
		return content
	}
	return strings.ReplaceAll(content, Token, "")
}

// Remove deletes every marker token and every stray marker signature, so
// caller-supplied markup cannot carry reserved syntax into a document.
func Remove(content string) string {
	out, _ := Clean(content, host.Range{})
	return out
}

// Clean removes marker tokens and stray signatures from content and moves
// r so it keeps pointing at the same visible position. An offset inside a
// removed fragment moves to the fragment's start.
func Clean(content string, r host.Range) (string, host.Range) {
	for _, frag := range []string{Token, signature} {
		for {
			i := strings.Index(content, frag)
			if i < 0 {
				break
			}
			content = content[:i] + content[i+len(frag):]
			r.Start = shift(r.Start, i, len(frag))
			r.End = shift(r.End, i, len(frag))
		}
	}
	return content, r
}

// Dirty reports whether content holds any marker fragment.
func Dirty(content string) bool {
	return strings.Contains(content, signature)
}

// shift maps offset across the removal of n bytes at at.
func shift(offset, at, n int) int {
	switch {
	case offset >= at+n:
		return offset - n
	case offset > at:
		return at
	default:
		return offset
	}
}

// Count returns the number of complete marker tokens in content.
func Count(content string) int {
	return strings.Count(content, Token)
}

// Extract strips markers and returns the selection they encoded, as offsets
// into the stripped content. ok is false when content has no markers.
func Extract(content string) (stripped string, r host.Range, ok bool, err error) {
	n := Count(content)
	if strings.Count(content, signature) != n {
		return "", host.Range{}, false, fmt.Errorf("%w: partial marker token", ErrMalformed)
	}

	switch n {
	case 0:
		return content, host.Range{}, false, nil
	case 1:
		i := strings.Index(content, Token)
		return Strip(content), host.Range{Start: i, End: i}, true, nil
	case 2:
		first := strings.Index(content, Token)
		second := first + len(Token) + strings.Index(content[first+len(Token):], Token)
		return Strip(content), host.Range{Start: first, End: second - len(Token)}, true, nil
	default:
		return "", host.Range{}, false, fmt.Errorf("%w: %d markers", ErrMalformed, n)
	}
}

func clamp(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}

package formatter

import (
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/dshills/scribe/internal/pipeline"
)

// EscapeHTML escapes markup characters in plain text.
func EscapeHTML() pipeline.Stage {
	return pipeline.Pure(xhtml.EscapeString)
}

var newlineReplacer = strings.NewReplacer("\r\n", "<br>", "\n", "<br>", "\r", "<br>")

// ConvertNewlines turns line breaks in escaped plain text into <br>.
// It must run after EscapeHTML.
func ConvertNewlines() pipeline.Stage {
	return pipeline.Pure(newlineReplacer.Replace)
}

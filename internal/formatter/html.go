package formatter

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"

	"github.com/dshills/scribe/internal/marker"
	"github.com/dshills/scribe/internal/pipeline"
)

// blockTags are elements that may appear at the top level of block content.
var blockTags = map[string]bool{
	"p": true, "div": true, "blockquote": true, "pre": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "table": true, "hr": true,
	"section": true, "article": true, "header": true, "footer": true, "figure": true,
}

// voidTags never have an end tag.
var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "wbr": true,
}

// Policy returns the sanitising policy used by Sanitize: user generated
// content rules plus the selection marker element.
func Policy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^scribe-marker$`)).OnElements("em")
	return p
}

// Sanitize removes markup the editor does not allow (scripts, event
// handler attributes, unknown elements).
func Sanitize(policy *bluemonday.Policy) pipeline.Stage {
	if policy == nil {
		policy = Policy()
	}
	return pipeline.Pure(policy.Sanitize)
}

var nbspReplacer = strings.NewReplacer("&nbsp;", " ", "\u00a0", " ")

// ReplaceNBSP turns non-breaking spaces into plain spaces.
func ReplaceNBSP() pipeline.Stage {
	return pipeline.Pure(nbspReplacer.Replace)
}

// EnforceParagraphs wraps top-level inline content in <p> elements so that
// block content never holds bare text.
func EnforceParagraphs() pipeline.Stage {
	return pipeline.Pure(enforceParagraphs)
}

func enforceParagraphs(content string) string {
	var b strings.Builder
	depth := 0
	open := false

	// A top-level marker is held back until the next token shows whether
	// it starts a paragraph or sits between blocks.
	var held strings.Builder
	inMarker := false

	flush := func() {
		b.WriteString(held.String())
		held.Reset()
	}
	openP := func() {
		if !open {
			b.WriteString("<p>")
			open = true
		}
		flush()
	}
	closeP := func() {
		if open {
			b.WriteString("</p>")
			open = false
		}
	}

	z := xhtml.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		raw := string(z.Raw())

		if inMarker {
			held.WriteString(raw)
			if tt == xhtml.EndTagToken {
				inMarker = false
			}
			continue
		}

		switch tt {
		case xhtml.TextToken:
			if depth == 0 && strings.TrimSpace(raw) != "" {
				openP()
			}
		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if depth == 0 && !open && isMarkerStart(tag, raw) {
				held.WriteString(raw)
				inMarker = tt == xhtml.StartTagToken
				continue
			}
			if depth == 0 {
				if blockTags[tag] {
					closeP()
				} else {
					openP()
				}
			}
			if tt == xhtml.StartTagToken && !voidTags[tag] {
				depth++
			}
		case xhtml.EndTagToken:
			if depth > 0 {
				depth--
			}
		}
		flush()
		b.WriteString(raw)
	}
	closeP()
	flush()

	return b.String()
}

func isMarkerStart(tag, raw string) bool {
	return tag == "em" && strings.HasPrefix(marker.Token, raw)
}

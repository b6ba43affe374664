package wordpress

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy keeps adjacent block elements from running together.
var strictPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// PlainText strips all markup from rendered WordPress HTML, decodes
// entities and collapses whitespace.
func PlainText(renderedHTML string) string {
	stripped := strictPolicy.Sanitize(renderedHTML)
	return strings.Join(strings.Fields(html.UnescapeString(stripped)), " ")
}

// Summary returns PlainText cut to at most maxRunes runes on a word
// boundary, with an ellipsis when shortened.
func Summary(renderedHTML string, maxRunes int) string {
	text := PlainText(renderedHTML)
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return text
	}

	cut := string(runes[:maxRunes])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

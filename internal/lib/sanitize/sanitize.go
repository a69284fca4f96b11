package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all tags and attributes.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy keeps basic formatting and links, and drops scripts, iframes,
	// event handlers and inline styles.
	UGCPolicy = bluemonday.UGCPolicy()
)

// Text strips all HTML and returns trimmed plain text. Entities are decoded,
// so "Rock &amp; Roll" is stored as "Rock & Roll".
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}

// HTML sanitizes rich text such as event details.
func HTML(input string) string {
	return strings.TrimSpace(UGCPolicy.Sanitize(input))
}

// TextPtr is Text for optional fields, nil stays nil.
func TextPtr(input *string) *string {
	if input == nil {
		return nil
	}

	out := Text(*input)
	return &out
}

func HTMLPtr(input *string) *string {
	if input == nil {
		return nil
	}

	out := HTML(*input)
	return &out
}

// Package render turns Markdown source into sanitized HTML and extracts
// the theme stylesheet rules needed for standalone output.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// policy strips anything active from the rendered fragment. Script and
// event-handler content must never survive into an export artifact.
var policy = bluemonday.UGCPolicy()

// Markdown renders source to a sanitized block-level HTML fragment.
// Deterministic for a given source string.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// Package render converts note bodies from markdown into HTML.
package render

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithRendererOptions(
		// Raw HTML passthrough stays disabled: bodies come from untrusted editors.
		gmhtml.WithHardWraps(),
	),
)

// Markdown renders body into HTML. An empty body renders to an empty string.
// If goldmark fails the escaped source is returned inside <pre>.
func Markdown(body string) string {
	src := strings.TrimSpace(body)
	if src == "" {
		return ""
	}

	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return "<pre>" + html.EscapeString(src) + "</pre>"
	}
	return b.String()
}

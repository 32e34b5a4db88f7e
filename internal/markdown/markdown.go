// Package markdown renders Markdown document bodies to HTML.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// renderer is built once; goldmark.Markdown is safe for concurrent use, which
// the parallel page-render stage relies on.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		// Content authors embed raw HTML snippets in posts; pass them through.
		html.WithUnsafe(),
	),
)

// Render converts a Markdown body (frontmatter already removed) into HTML.
func Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

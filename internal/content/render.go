package content

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(newMDLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy()
)

// renderBody turns a document body into HTML. Markdown is rendered with
// goldmark; HTML bodies pass through. Output is sanitized unless unsafe.
func renderBody(body []byte, markdown, unsafe bool) (string, error) {
	out := body
	if markdown {
		var buf bytes.Buffer
		if err := markdownRenderer.Convert(body, &buf); err != nil {
			return "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
		}
		out = buf.Bytes()
	}
	if unsafe {
		return string(out), nil
	}
	return string(htmlSanitizer.SanitizeBytes(out)), nil
}

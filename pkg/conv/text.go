package conv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown/html"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.NewPolicy()

func init() {
	// Structure only; inline emphasis and headings are flattened to their text.
	textPolicy.AllowElements("p", "br", "ul", "ol", "li", "pre", "table", "thead", "tbody", "tr", "th", "td")
}

// MarkdownToText renders markdown and flattens it to plain text, keeping
// list markers and table layout readable.
func MarkdownToText(md []byte) (string, error) {
	return HTMLToText(renderHTML(md, html.CommonFlags))
}

// HTMLToText sanitizes untrusted HTML before flattening it.
func HTMLToText(raw []byte) (string, error) {
	sanitized := textPolicy.SanitizeBytes(raw)

	text, err := html2text.FromReader(bytes.NewReader(sanitized), html2text.Options{
		OmitLinks:    true,
		PrettyTables: true,
	})
	if err != nil {
		return "", fmt.Errorf("html to text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

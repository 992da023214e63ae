package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock

	telegramPolicy = bluemonday.NewPolicy()
)

func init() {
	// Tags Telegram accepts with parse_mode=HTML, see
	// https://core.telegram.org/bots/api#html-style
	telegramPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	telegramPolicy.AllowAttrs("href").OnElements("a")
	telegramPolicy.AllowAttrs("class").OnElements("code")
}

// renderHTML parses md with a fresh parser; gomarkdown parsers are single use.
func renderHTML(md []byte, flags html.Flags) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: flags})
	return markdown.Render(p.Parse(md), renderer)
}

// MarkdownToTelegramHTML renders agent Markdown into the HTML subset Telegram
// accepts; everything else, headings included, is reduced to its text.
func MarkdownToTelegramHTML(md []byte) string {
	return string(telegramPolicy.SanitizeBytes(renderHTML(md, html.CommonFlags|html.HrefTargetBlank)))
}

package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "Hello world", want: "Hello world\n"},
		{name: "bold", input: "**bold**", want: "<strong>bold</strong>\n"},
		{name: "italic", input: "*italic*", want: "<em>italic</em>\n"},
		{name: "strikethrough", input: "~~gone~~", want: "<del>gone</del>\n"},
		{name: "inline code", input: "`/memory`", want: "<code>/memory</code>\n"},
		{
			name:  "code block keeps language class",
			input: "```go\nfunc main() {}\n```",
			want:  "<pre><code class=\"language-go\">func main() {}\n</code></pre>\n",
		},
		{name: "blockquote", input: "> quote", want: "<blockquote>\nquote\n</blockquote>\n"},
		{
			name:  "link loses target attribute",
			input: "[docs](https://example.com)",
			want:  "<a href=\"https://example.com\">docs</a>\n",
		},
		{name: "heading flattened", input: "# Memory", want: "Memory\n"},
		{name: "script removed", input: "<script>alert('xss')</script>", want: "\n"},
		{
			name:  "command output",
			input: "**Kind**  ›  `plain`",
			want:  "<strong>Kind</strong>  ›  <code>plain</code>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}

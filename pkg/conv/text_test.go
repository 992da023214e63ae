package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToText(t *testing.T) {
	got, err := MarkdownToText([]byte("# Notes\n\nThe **cat** sat on the mat."))
	require.NoError(t, err)

	assert.Contains(t, got, "Notes")
	assert.Contains(t, got, "The cat sat on the mat.")
	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "<")
}

func TestHTMLToText_StripsScripts(t *testing.T) {
	got, err := HTMLToText([]byte(`<p>Hello <b>world</b></p><script>alert("x")</script>`))
	require.NoError(t, err)

	assert.Contains(t, got, "Hello world")
	assert.NotContains(t, got, "alert")
}

func TestHTMLToText_Empty(t *testing.T) {
	got, err := HTMLToText(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// wordTokenizer makes one token per whitespace separated word.
type wordTokenizer struct {
	vocab []string
}

func (w *wordTokenizer) Encode(text string) []int {
	fields := strings.Fields(text)
	ids := make([]int, len(fields))
	for i, f := range fields {
		w.vocab = append(w.vocab, f)
		ids[i] = len(w.vocab) - 1
	}
	return ids
}

func (w *wordTokenizer) Decode(tokens []int) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = w.vocab[t]
	}
	return strings.Join(words, " ")
}

func TestChunker_Chunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		cfg  ChunkerConfig
		want []string
	}{
		{
			name: "empty input",
			text: "   \n\t  ",
			cfg:  ChunkerConfig{MaxTokens: 10},
			want: nil,
		},
		{
			name: "two sentences fit",
			text: "Hello world. How are you?",
			cfg:  ChunkerConfig{MaxTokens: 10},
			want: []string{"Hello world. How are you?"},
		},
		{
			name: "split by sentence",
			text: "First sentence. Second sentence.",
			cfg:  ChunkerConfig{MaxTokens: 2},
			want: []string{"First sentence.", "Second sentence."},
		},
		{
			name: "overlap carries previous sentence",
			text: "Sentence one. Sentence two. Sentence three.",
			cfg:  ChunkerConfig{MaxTokens: 4, OverlapTokens: 2},
			want: []string{"Sentence one. Sentence two.", "Sentence two. Sentence three."},
		},
		{
			name: "long sentence cut on tokens",
			text: "one two three four five six seven",
			cfg:  ChunkerConfig{MaxTokens: 3},
			want: []string{"one two three", "four five six", "seven"},
		},
		{
			name: "paragraphs and soft wraps",
			text: "Para\none.\n\nPara two.",
			cfg:  ChunkerConfig{MaxTokens: 10},
			want: []string{"Para one. Para two."},
		},
		{
			name: "cjk sentence enders",
			text: "你好 世界。 这是 测试。",
			cfg:  ChunkerConfig{MaxTokens: 2},
			want: []string{"你好 世界。", "这是 测试。"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunker(&wordTokenizer{}, tt.cfg)
			chunks := c.Chunk(tt.text)

			var got []string
			for i, ch := range chunks {
				assert.Equal(t, i, ch.Index)
				assert.LessOrEqual(t, ch.TokenSize, tt.cfg.MaxTokens)
				got = append(got, ch.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuneTokenizer(t *testing.T) {
	tok := RuneTokenizer{}
	ids := tok.Encode("héllo")
	assert.Len(t, ids, 5)
	assert.Equal(t, "héllo", tok.Decode(ids))
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Hello world. How are you? I am fine.")
	assert.Equal(t, []string{"Hello world.", "How are you?", "I am fine."}, got)
}

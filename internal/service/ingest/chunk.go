package ingest

import (
	"strings"
	"unicode"
)

type Chunk struct {
	Text      string
	TokenSize int
	Index     int
}

type ChunkerConfig struct {
	MaxTokens     int
	OverlapTokens int
}

// Chunker splits text on sentence boundaries into chunks of at most
// MaxTokens, carrying trailing sentences of the previous chunk as overlap.
type Chunker struct {
	tok Tokenizer
	cfg ChunkerConfig
}

func NewChunker(tok Tokenizer, cfg ChunkerConfig) *Chunker {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if cfg.OverlapTokens >= cfg.MaxTokens {
		cfg.OverlapTokens = cfg.MaxTokens / 2
	}
	return &Chunker{tok: tok, cfg: cfg}
}

func (c *Chunker) Chunk(text string) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)

	var chunks []Chunk
	var buf strings.Builder
	bufTokens := 0

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Text:      strings.TrimSpace(buf.String()),
			TokenSize: bufTokens,
			Index:     len(chunks),
		})
		buf.Reset()
		bufTokens = 0
	}

	for i, sentence := range sentences {
		n := c.count(sentence)

		// Sentences longer than a chunk are cut on token boundaries.
		if n > c.cfg.MaxTokens {
			flush()
			for _, piece := range c.splitLong(sentence) {
				chunks = append(chunks, Chunk{
					Text:      strings.TrimSpace(piece.Text),
					TokenSize: piece.TokenSize,
					Index:     len(chunks),
				})
			}
			continue
		}

		if bufTokens+n > c.cfg.MaxTokens && buf.Len() > 0 {
			flush()
			overlap := c.overlap(sentences, i)
			if overlap != "" && c.count(overlap)+n <= c.cfg.MaxTokens {
				buf.WriteString(overlap)
				bufTokens = c.count(overlap)
			}
		}

		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(sentence)
		bufTokens += n
	}
	flush()

	return chunks
}

// Texts is Chunk without the bookkeeping.
func (c *Chunker) Texts(text string) []string {
	chunks := c.Chunk(text)
	out := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		if ch.Text != "" {
			out = append(out, ch.Text)
		}
	}
	return out
}

func (c *Chunker) count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.tok.Encode(text))
}

func (c *Chunker) splitLong(text string) []Chunk {
	tokens := c.tok.Encode(text)

	var out []Chunk
	for i := 0; i < len(tokens); i += c.cfg.MaxTokens {
		end := min(i+c.cfg.MaxTokens, len(tokens))
		out = append(out, Chunk{
			Text:      c.tok.Decode(tokens[i:end]),
			TokenSize: end - i,
		})
	}
	return out
}

// overlap collects whole sentences before idx until OverlapTokens is reached.
func (c *Chunker) overlap(sentences []string, idx int) string {
	if idx == 0 || c.cfg.OverlapTokens <= 0 {
		return ""
	}

	var picked []string
	tokens := 0
	for i := idx - 1; i >= 0 && tokens < c.cfg.OverlapTokens; i-- {
		picked = append([]string{sentences[i]}, picked...)
		tokens += c.count(sentences[i])
	}
	return strings.Join(picked, " ")
}

var sentenceEnders = map[rune]bool{
	'.': true, '!': true, '?': true,
	'。': true, '！': true, '？': true, '．': true, '…': true,
}

func splitSentences(text string) []string {
	var sentences []string

	for _, para := range splitParagraphs(text) {
		var cur strings.Builder
		runes := []rune(para)

		for i, r := range runes {
			cur.WriteRune(r)
			if !sentenceEnders[r] {
				continue
			}
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) || isCJK(runes[i+1]) {
				if s := strings.TrimSpace(cur.String()); s != "" {
					sentences = append(sentences, s)
				}
				cur.Reset()
			}
		}

		if s := strings.TrimSpace(cur.String()); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 && text != "" {
		return []string{text}
	}
	return sentences
}

func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		// soft wraps inside a paragraph
		p = strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

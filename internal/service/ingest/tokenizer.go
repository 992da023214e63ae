package ingest

import (
	"context"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/tuskmem/pkg/log"
)

// Tokenizer maps text to token ids and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

type tiktokenTokenizer struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

func (t *tiktokenTokenizer) Encode(text string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enc.Encode(text, nil, nil)
}

func (t *tiktokenTokenizer) Decode(tokens []int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enc.Decode(tokens)
}

// RuneTokenizer treats every rune as a token.
type RuneTokenizer struct{}

func (RuneTokenizer) Encode(text string) []int {
	runes := []rune(text)
	out := make([]int, len(runes))
	for i, r := range runes {
		out[i] = int(r)
	}
	return out
}

func (RuneTokenizer) Decode(tokens []int) string {
	runes := make([]rune, len(tokens))
	for i, t := range tokens {
		runes[i] = rune(t)
	}
	return string(runes)
}

// NewTokenizer returns the cl100k_base tokenizer, or a rune tokenizer when
// the encoding cannot be loaded.
func NewTokenizer(ctx context.Context) Tokenizer {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("tiktoken unavailable, chunking by runes")
		return RuneTokenizer{}
	}
	return &tiktokenTokenizer{enc: enc}
}

package memory

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/log"
)

// messageOverhead approximates the per-message framing tokens of chat formats.
const messageOverhead = 4

// HeuristicCounter estimates four runes per token.
type HeuristicCounter struct{}

func (HeuristicCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n+3)/4 + messageOverhead
}

type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
	mu  sync.Mutex
}

func (c *TiktokenCounter) Count(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.enc.Encode(text, nil, nil)) + messageOverhead
}

// NewTokenCounter loads the cl100k_base encoding, falling back to the
// heuristic when the encoding cannot be fetched.
func NewTokenCounter(ctx context.Context) core.TokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("tiktoken unavailable, using heuristic token counter")
		return HeuristicCounter{}
	}
	return &TiktokenCounter{enc: enc}
}

package memory

import (
	"context"
	"fmt"

	"github.com/sandevgo/tuskmem/internal/core"
)

// base holds what every variant shares: the window and its recall log.
type base struct {
	window *Window
	recall *RecallLog
}

func (b *base) AppendToRecall(ctx context.Context, msg core.Message) error {
	b.recall.Append(msg)
	b.window.Push(msg)
	return nil
}

func (b *base) SearchRecall(query string, k int) []core.Message {
	return b.recall.Search(query, k)
}

func (b *base) WindowMessages() []core.Message {
	return b.window.Messages()
}

func (b *base) Recall() []core.Message {
	return b.recall.Messages()
}

func (b *base) stats(kind core.MemoryKind, archival int) core.MemoryStats {
	return core.MemoryStats{
		Kind:            kind,
		WindowMessages:  b.window.Len(),
		WindowTokens:    b.window.Tokens(),
		WindowBudget:    b.window.Budget(),
		RecallMessages:  b.recall.Len(),
		ArchivalEntries: archival,
	}
}

func checkK(k int) error {
	if k <= 0 {
		return fmt.Errorf("%w: k must be positive", ErrInvalidQuery)
	}
	return nil
}

// Plain starts with an empty archive that grows through InsertArchival.
type Plain struct {
	base
	archive *linearArchive
}

func NewPlain(window *Window) *Plain {
	return &Plain{
		base:    base{window: window, recall: NewRecallLog(nil)},
		archive: newLinearArchive(nil),
	}
}

func (p *Plain) QueryArchival(ctx context.Context, q core.ArchivalQuery) ([]core.ArchivalResult, error) {
	if err := checkK(q.K); err != nil {
		return nil, err
	}
	return p.archive.query(q.Text, q.K), nil
}

func (p *Plain) InsertArchival(ctx context.Context, content string) error {
	p.archive.insert(content)
	return nil
}

func (p *Plain) Archival() []core.ArchivalEntry { return p.archive.all() }
func (p *Plain) Kind() core.MemoryKind          { return core.MemoryPlain }

func (p *Plain) Stats() core.MemoryStats {
	return p.stats(core.MemoryPlain, p.archive.len())
}

func (p *Plain) Snapshot() core.MemoryState {
	return core.MemoryState{Kind: core.MemoryPlain, Recall: p.Recall(), Archival: p.archive.all()}
}

// Preloaded serves a fixed chunk sequence loaded at construction.
type Preloaded struct {
	base
	archive *linearArchive
}

func NewPreloaded(window *Window, chunks []string) *Preloaded {
	entries := make([]core.ArchivalEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = core.ArchivalEntry{Content: c}
	}
	return &Preloaded{
		base:    base{window: window, recall: NewRecallLog(nil)},
		archive: newLinearArchive(entries),
	}
}

func (p *Preloaded) QueryArchival(ctx context.Context, q core.ArchivalQuery) ([]core.ArchivalResult, error) {
	if err := checkK(q.K); err != nil {
		return nil, err
	}
	return p.archive.query(q.Text, q.K), nil
}

func (p *Preloaded) InsertArchival(ctx context.Context, content string) error {
	return ErrImmutableArchive
}

func (p *Preloaded) Archival() []core.ArchivalEntry { return p.archive.all() }
func (p *Preloaded) Kind() core.MemoryKind          { return core.MemoryPreloaded }

func (p *Preloaded) Stats() core.MemoryStats {
	return p.stats(core.MemoryPreloaded, p.archive.len())
}

func (p *Preloaded) Snapshot() core.MemoryState {
	return core.MemoryState{Kind: core.MemoryPreloaded, Recall: p.Recall(), Archival: p.archive.all()}
}

// Indexed answers archival queries by vector similarity.
type Indexed struct {
	base
	index    *Index
	embedder core.Embedder
}

func NewIndexed(window *Window, index *Index, embedder core.Embedder) *Indexed {
	return &Indexed{
		base:     base{window: window, recall: NewRecallLog(nil)},
		index:    index,
		embedder: embedder,
	}
}

func (x *Indexed) QueryArchival(ctx context.Context, q core.ArchivalQuery) ([]core.ArchivalResult, error) {
	if err := checkK(q.K); err != nil {
		return nil, err
	}

	vec := q.Vector
	if len(vec) == 0 {
		if q.Text == "" {
			return nil, fmt.Errorf("%w: vector or text required", ErrInvalidQuery)
		}
		if x.embedder == nil {
			return nil, ErrNoEmbedder
		}
		vecs, err := x.embedder.Embed(ctx, q.Text)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		if len(vecs) == 0 {
			return nil, fmt.Errorf("embed query: no vectors returned")
		}
		vec = vecs[0]
	}

	hits, err := x.index.Search(vec, q.K)
	if err != nil {
		return nil, err
	}

	results := make([]core.ArchivalResult, len(hits))
	for i, h := range hits {
		results[i] = core.ArchivalResult{
			Entry:    core.ArchivalEntry{Content: h.Document, Embedding: h.Vector},
			Ordinal:  h.Ordinal,
			Distance: h.Distance,
		}
	}
	return results, nil
}

func (x *Indexed) InsertArchival(ctx context.Context, content string) error {
	return ErrImmutableArchive
}

func (x *Indexed) Archival() []core.ArchivalEntry { return x.index.Entries() }
func (x *Indexed) Kind() core.MemoryKind          { return core.MemoryIndexed }

func (x *Indexed) Stats() core.MemoryStats {
	return x.stats(core.MemoryIndexed, x.index.Len())
}

func (x *Indexed) Snapshot() core.MemoryState {
	return core.MemoryState{
		Kind:     core.MemoryIndexed,
		Recall:   x.Recall(),
		Archival: x.index.Entries(),
		Dims:     x.index.Dims(),
	}
}

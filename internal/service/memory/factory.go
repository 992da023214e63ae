package memory

import (
	"fmt"

	"github.com/sandevgo/tuskmem/internal/core"
)

// Options carries what the configured variant needs at construction.
type Options struct {
	Kind     core.MemoryKind
	Chunks   []string
	Index    *Index
	Embedder core.Embedder
}

// New builds a fresh manager of the configured kind around window.
func New(opts Options, window *Window) (core.PersistenceManager, error) {
	return build(opts, base{window: window, recall: NewRecallLog(nil)})
}

// Seed returns a fresh manager whose recall log already holds the window, for
// when a conversation is restored without its memory half.
func Seed(opts Options, window *Window) (core.PersistenceManager, error) {
	return build(opts, base{window: window, recall: NewRecallLog(window.Messages())})
}

func build(opts Options, b base) (core.PersistenceManager, error) {
	switch opts.Kind {
	case core.MemoryPlain, "":
		return &Plain{base: b, archive: newLinearArchive(nil)}, nil
	case core.MemoryPreloaded:
		entries := make([]core.ArchivalEntry, len(opts.Chunks))
		for i, c := range opts.Chunks {
			entries[i] = core.ArchivalEntry{Content: c}
		}
		return &Preloaded{base: b, archive: newLinearArchive(entries)}, nil
	case core.MemoryIndexed:
		if opts.Index == nil {
			return nil, fmt.Errorf("indexed memory requires an index")
		}
		return &Indexed{base: b, index: opts.Index, embedder: opts.Embedder}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, opts.Kind)
	}
}

// Restore rebuilds a manager from its snapshot. The window must already hold
// the restored conversation; a snapshot whose recall log does not contain it
// belongs to a different checkpoint and is rejected.
func Restore(state core.MemoryState, window *Window, embedder core.Embedder) (core.PersistenceManager, error) {
	recall := NewRecallLog(state.Recall)
	if !recall.Contains(window.Messages()) {
		return nil, ErrRecallMismatch
	}
	b := base{window: window, recall: recall}

	switch state.Kind {
	case core.MemoryPlain:
		return &Plain{base: b, archive: newLinearArchive(state.Archival)}, nil
	case core.MemoryPreloaded:
		return &Preloaded{base: b, archive: newLinearArchive(state.Archival)}, nil
	case core.MemoryIndexed:
		vectors := make([][]float32, len(state.Archival))
		docs := make([]string, len(state.Archival))
		for i, e := range state.Archival {
			vectors[i] = e.Embedding
			docs[i] = e.Content
		}
		index, err := NewIndex(vectors, docs)
		if err != nil {
			return nil, fmt.Errorf("rebuild index: %w", err)
		}
		return &Indexed{base: b, index: index, embedder: embedder}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, state.Kind)
	}
}


package ingest

import (
	"context"
	"fmt"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/memory"
	"github.com/sandevgo/tuskmem/internal/storage/sqlite"
	"github.com/sandevgo/tuskmem/pkg/log"
)

const embedBatchSize = 32

// EmbedChunks embeds texts in batches and pairs each text with its vector.
func EmbedChunks(ctx context.Context, embedder core.Embedder, texts []string) ([]core.ArchivalEntry, error) {
	if embedder == nil {
		return nil, memory.ErrNoEmbedder
	}
	logger := log.FromCtx(ctx)

	entries := make([]core.ArchivalEntry, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		batch := texts[start:end]

		vecs, err := embedder.Embed(ctx, batch...)
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if len(vecs) != len(batch) {
			return nil, fmt.Errorf("embed chunks %d-%d: got %d vectors", start, end, len(vecs))
		}
		for i, v := range vecs {
			entries = append(entries, core.ArchivalEntry{Content: batch[i], Embedding: v})
		}
		logger.Debug().Int("done", end).Int("total", len(texts)).Msg("embedding archival chunks")
	}
	return entries, nil
}

// NewIndex builds an in-memory index from embedded entries.
func NewIndex(entries []core.ArchivalEntry) (*memory.Index, error) {
	vectors := make([][]float32, len(entries))
	docs := make([]string, len(entries))
	for i, e := range entries {
		vectors[i] = e.Embedding
		docs[i] = e.Content
	}
	return memory.NewIndex(vectors, docs)
}

// SaveIndex writes entries to the index database at path.
func SaveIndex(ctx context.Context, path string, entries []core.ArchivalEntry, model string) error {
	db, err := sqlite.NewDB(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.NewIndexRepo(db).Replace(ctx, entries, model); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	log.FromCtx(ctx).Info().Str("path", path).Int("entries", len(entries)).Msg("archival index saved")
	return nil
}

// OpenIndex loads a previously saved index database.
func OpenIndex(ctx context.Context, path string) (*memory.Index, error) {
	db, err := sqlite.NewDB(ctx, path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	entries, err := sqlite.NewIndexRepo(db).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", path, err)
	}
	return NewIndex(entries)
}

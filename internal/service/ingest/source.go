package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/memory"
	"github.com/sandevgo/tuskmem/internal/storage/sqlite"
	"github.com/sandevgo/tuskmem/pkg/log"
)

// Archival is everything the configured archival source contributes to a
// session: the memory options, messages the agent should see first and
// lines for the operator.
type Archival struct {
	Options memory.Options
	Notices []core.Message
	Report  []string

	// Err is why the configured source was replaced by an empty archive.
	Err error
}

type Loader struct {
	cfg       *config.AppConfig
	embedder  core.Embedder
	tokenizer Tokenizer
	now       func() time.Time
}

func NewLoader(cfg *config.AppConfig, embedder core.Embedder, tokenizer Tokenizer) *Loader {
	return &Loader{
		cfg:       cfg,
		embedder:  embedder,
		tokenizer: tokenizer,
		now:       time.Now,
	}
}

func (l *Loader) chunker() *Chunker {
	return NewChunker(l.tokenizer, ChunkerConfig{
		MaxTokens:     l.cfg.ChunkTokens,
		OverlapTokens: l.cfg.ChunkOverlap,
	})
}

// Load prepares the archival memory selected by configuration.
func (l *Loader) Load(ctx context.Context) (*Archival, error) {
	switch {
	case l.cfg.ArchivalIndex != "":
		return l.loadIndex(ctx)
	case l.cfg.ArchivalFilesEmbed != "":
		return l.embedFiles(ctx)
	case l.cfg.ArchivalFiles != "":
		return l.loadFiles(ctx)
	case l.cfg.ArchivalSQLDB != "":
		return l.loadTable(ctx)
	default:
		return &Archival{Options: memory.Options{Kind: core.MemoryPlain}}, nil
	}
}

// LoadOrEmpty is Load for a session: a source that cannot be read leaves the
// agent with an empty plain archive and a report line instead of an error.
func (l *Loader) LoadOrEmpty(ctx context.Context) *Archival {
	archival, err := l.Load(ctx)
	if err == nil {
		return archival
	}

	log.FromCtx(ctx).Warn().Err(err).Msg("archival memory not loaded, starting with an empty archive")
	return &Archival{
		Options: memory.Options{Kind: core.MemoryPlain},
		Report:  []string{fmt.Sprintf("Archival memory was not loaded (%v); starting with an empty archive.", err)},
		Err:     err,
	}
}

func (l *Loader) loadIndex(ctx context.Context) (*Archival, error) {
	index, err := OpenIndex(ctx, l.cfg.ArchivalIndex)
	if err != nil {
		return nil, err
	}
	return &Archival{
		Options: memory.Options{Kind: core.MemoryIndexed, Index: index, Embedder: l.embedder},
		Report:  []string{fmt.Sprintf("Loaded %d indexed entries into archival memory.", index.Len())},
	}, nil
}

func (l *Loader) embedFiles(ctx context.Context) (*Archival, error) {
	path := filepath.Join(l.cfg.GetRuntimePath(), "archival", "index_"+l.now().Format("20060102_150405")+".db")
	index, err := l.BuildIndex(ctx, l.cfg.ArchivalFilesEmbed, path)
	if err != nil {
		return nil, err
	}
	return &Archival{
		Options: memory.Options{Kind: core.MemoryIndexed, Index: index, Embedder: l.embedder},
		Report: []string{
			fmt.Sprintf("Embedded %d chunks into archival memory.", index.Len()),
			fmt.Sprintf("To avoid computing embeddings next time, replace --archival-files-embed=%s with --archival-index=%s (if your files haven't changed).",
				l.cfg.ArchivalFilesEmbed, path),
		},
	}, nil
}

// BuildIndex chunks and embeds the files matched by pattern and saves the
// result to dbPath.
func (l *Loader) BuildIndex(ctx context.Context, pattern, dbPath string) (*memory.Index, error) {
	chunks, err := LoadFiles(ctx, pattern, l.chunker())
	if err != nil {
		return nil, err
	}
	entries, err := EmbedChunks(ctx, l.embedder, chunks)
	if err != nil {
		return nil, err
	}
	index, err := NewIndex(entries)
	if err != nil {
		return nil, err
	}
	if err := SaveIndex(ctx, dbPath, entries, l.cfg.Backend.EmbeddingModel); err != nil {
		return nil, err
	}
	return index, nil
}

func (l *Loader) loadFiles(ctx context.Context) (*Archival, error) {
	chunks, err := LoadFiles(ctx, l.cfg.ArchivalFiles, l.chunker())
	if err != nil {
		return nil, err
	}
	return &Archival{
		Options: memory.Options{Kind: core.MemoryPreloaded, Chunks: chunks},
		Report:  []string{fmt.Sprintf("Preloaded %d chunks into archival memory.", len(chunks))},
	}, nil
}

func (l *Loader) loadTable(ctx context.Context) (*Archival, error) {
	if _, err := os.Stat(l.cfg.ArchivalSQLDB); err != nil {
		return nil, fmt.Errorf("archival database: %w", err)
	}
	table, err := sqlite.ReadFirstTable(ctx, l.cfg.ArchivalSQLDB)
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().
		Str("table", table.Name).
		Int("rows", len(table.Rows)).
		Msg("archival database loaded")

	return &Archival{
		Options: memory.Options{Kind: core.MemoryPreloaded, Chunks: table.Rows},
		Notices: []core.Message{core.ArchivalLoadedMessage(table.Name, table.Schema, l.now())},
		Report:  []string{fmt.Sprintf("Database loaded into archival memory: %d rows from table %s.", len(table.Rows), table.Name)},
	}, nil
}

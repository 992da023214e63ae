package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/sqlite"
)

const (
	metaDims  = "dims"
	metaModel = "embedding_model"
)

// IndexRepo persists an archival similarity index as two tables sharing
// ordinal positions: documents and their vectors.
type IndexRepo struct {
	db *sql.DB
}

func NewIndexRepo(db *sql.DB) *IndexRepo {
	return &IndexRepo{db: db}
}

// Replace stores entries as the whole index, dropping whatever was there.
func (r *IndexRepo) Replace(ctx context.Context, entries []core.ArchivalEntry, model string) error {
	dims := 0
	for i, e := range entries {
		if len(e.Embedding) == 0 {
			return fmt.Errorf("entry %d has no embedding", i)
		}
		if dims == 0 {
			dims = len(e.Embedding)
		}
		if len(e.Embedding) != dims {
			return fmt.Errorf("entry %d has %d dimensions, want %d", i, len(e.Embedding), dims)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM vectors`, `DELETE FROM documents`, `DELETE FROM index_meta`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}

	docStmt, err := tx.PrepareContext(ctx, `INSERT INTO documents (ordinal, content) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer docStmt.Close()

	vecStmt, err := tx.PrepareContext(ctx, `INSERT INTO vectors (ordinal, embedding) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer vecStmt.Close()

	for i, e := range entries {
		if _, err := docStmt.ExecContext(ctx, i, e.Content); err != nil {
			return fmt.Errorf("insert document %d: %w", i, err)
		}
		if _, err := vecStmt.ExecContext(ctx, i, sqlite.EncodeVector(e.Embedding)); err != nil {
			return fmt.Errorf("insert vector %d: %w", i, err)
		}
	}

	meta := map[string]string{metaDims: strconv.Itoa(dims), metaModel: model}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO index_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta: %w", err)
		}
	}

	return tx.Commit()
}

// Load returns the stored entries in ordinal order. The two tables must agree
// in size and every vector must have the recorded dimension.
func (r *IndexRepo) Load(ctx context.Context) ([]core.ArchivalEntry, error) {
	var docs, vecs int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&docs); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&vecs); err != nil {
		return nil, fmt.Errorf("count vectors: %w", err)
	}
	if docs != vecs {
		return nil, fmt.Errorf("%w: %d documents, %d vectors", ErrCorruptIndex, docs, vecs)
	}

	dims, err := r.Dims(ctx)
	if err != nil {
		return nil, err
	}
	var bad int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors WHERE vec_dims(embedding) != ?`, dims).Scan(&bad); err != nil {
		return nil, fmt.Errorf("check dimensions: %w", err)
	}
	if bad > 0 {
		return nil, fmt.Errorf("%w: %d vectors are not %d-dimensional", ErrCorruptIndex, bad, dims)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT d.content, v.embedding
		FROM documents d
		JOIN vectors v ON v.ordinal = d.ordinal
		ORDER BY d.ordinal
	`)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	entries := make([]core.ArchivalEntry, 0, docs)
	for rows.Next() {
		var content string
		var blob []byte
		if err := rows.Scan(&content, &blob); err != nil {
			return nil, err
		}
		entries = append(entries, core.ArchivalEntry{Content: content, Embedding: sqlite.DecodeVector(blob)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) != docs {
		return nil, fmt.Errorf("%w: %d of %d documents have vectors", ErrCorruptIndex, len(entries), docs)
	}
	return entries, nil
}

// Dims is the vector dimension recorded at build time, 0 for an empty index.
func (r *IndexRepo) Dims(ctx context.Context) (int, error) {
	v, err := r.meta(ctx, metaDims)
	if err != nil || v == "" {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (r *IndexRepo) Model(ctx context.Context) (string, error) {
	return r.meta(ctx, metaModel)
}

func (r *IndexRepo) meta(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM index_meta WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

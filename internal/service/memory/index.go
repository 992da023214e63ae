package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sandevgo/tuskmem/internal/core"
)

// Index is a flat L2 similarity index with a parallel document table.
// Position i of the index always describes document i.
type Index struct {
	mu      sync.RWMutex
	dims    int
	vectors [][]float32
	docs    []string
}

type Hit struct {
	Ordinal  int
	Distance float32
	Document string
	Vector   []float32
}

// NewIndex pairs vectors[i] with docs[i]. Both slices must have the same
// length and every vector the same dimension.
func NewIndex(vectors [][]float32, docs []string) (*Index, error) {
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("%w: %d vectors, %d documents", ErrIndexMismatch, len(vectors), len(docs))
	}

	x := &Index{}
	for i := range vectors {
		if err := x.add(vectors[i], docs[i]); err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
	}
	return x, nil
}

// add appends a vector and its document together, or neither. Callers hold
// the write lock or own x exclusively.
func (x *Index) add(vec []float32, doc string) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}
	if x.dims != 0 && len(vec) != x.dims {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), x.dims)
	}
	x.dims = len(vec)
	x.vectors = append(x.vectors, vec)
	x.docs = append(x.docs, doc)
	return nil
}

// Search returns at most k hits ordered by non-decreasing L2 distance.
func (x *Index) Search(query []float32, k int) ([]Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", ErrInvalidQuery)
	}
	if len(x.vectors) == 0 {
		return nil, nil
	}
	if len(query) != x.dims {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(query), x.dims)
	}

	hits := make([]Hit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = Hit{Ordinal: i, Distance: l2(query, v), Document: x.docs[i], Vector: v}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs)
}

func (x *Index) Dims() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dims
}

func (x *Index) Entries() []core.ArchivalEntry {
	x.mu.RLock()
	defer x.mu.RUnlock()

	entries := make([]core.ArchivalEntry, len(x.docs))
	for i := range x.docs {
		entries[i] = core.ArchivalEntry{Content: x.docs[i], Embedding: x.vectors[i]}
	}
	return entries
}

func l2(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

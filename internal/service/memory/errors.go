package memory

import "errors"

var (
	ErrIndexMismatch     = errors.New("index and document table sizes differ")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrImmutableArchive  = errors.New("archival store is read-only")
	ErrInvalidQuery      = errors.New("invalid archival query")
	ErrNoEmbedder        = errors.New("text query requires an embedder")
	ErrRecallMismatch    = errors.New("working window is not contained in recall log")
	ErrUnknownKind       = errors.New("unknown memory kind")
)

package core

import "context"

type MemoryKind string

const (
	MemoryPlain     MemoryKind = "plain"
	MemoryPreloaded MemoryKind = "preloaded"
	MemoryIndexed   MemoryKind = "indexed"
)

type ArchivalEntry struct {
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// ArchivalQuery asks for at most K entries. Indexed stores use Vector when
// present and embed Text otherwise; linear stores match on Text.
type ArchivalQuery struct {
	Text   string
	Vector []float32
	K      int
}

type ArchivalResult struct {
	Entry    ArchivalEntry `json:"entry"`
	Ordinal  int           `json:"ordinal"`
	Distance float32       `json:"distance"`
}

type MemoryStats struct {
	Kind            MemoryKind `json:"kind"`
	WindowMessages  int        `json:"window_messages"`
	WindowTokens    int        `json:"window_tokens"`
	WindowBudget    int        `json:"window_budget"`
	RecallMessages  int        `json:"recall_messages"`
	ArchivalEntries int        `json:"archival_entries"`
}

// MemoryState is the serializable form of a PersistenceManager.
type MemoryState struct {
	Kind     MemoryKind      `json:"kind"`
	Recall   []Message       `json:"recall"`
	Archival []ArchivalEntry `json:"archival"`
	Dims     int             `json:"dims,omitempty"`
}

type PersistenceManager interface {
	// AppendToRecall records msg in the recall log and places it into the
	// working window, evicting the oldest window messages past capacity.
	AppendToRecall(ctx context.Context, msg Message) error
	QueryArchival(ctx context.Context, q ArchivalQuery) ([]ArchivalResult, error)
	InsertArchival(ctx context.Context, content string) error
	SearchRecall(query string, k int) []Message

	WindowMessages() []Message
	Recall() []Message
	Archival() []ArchivalEntry
	Stats() MemoryStats
	Kind() MemoryKind
	Snapshot() MemoryState
}

type TokenCounter interface {
	Count(text string) int
}

type Embedder interface {
	Embed(ctx context.Context, texts ...string) ([][]float32, error)
}

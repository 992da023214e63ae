// Package checkpoint saves and restores paired agent and memory snapshots.
package checkpoint

import (
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/tuskmem/internal/core"
)

// SchemaVersion is bumped whenever either half changes incompatibly.
const SchemaVersion = 1

const (
	kindAgent  = "agent"
	kindMemory = "memory"

	agentExt  = ".json"
	memoryExt = ".memory.json.gz"

	// nameLayout is filesystem safe and sorts chronologically.
	nameLayout = "2006-01-02_15_04_05.000000"
)

// Trigger describes what caused a checkpoint to be created.
type Trigger string

const (
	TriggerManual   Trigger = "manual"   // Operator save
	TriggerShutdown Trigger = "shutdown" // Session termination
)

type header struct {
	Version   int       `json:"version"`
	Kind      string    `json:"kind"`
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Trigger   Trigger   `json:"trigger"`
}

type agentArtifact struct {
	header
	Agent core.AgentState `json:"agent"`
}

type memoryArtifact struct {
	header
	Memory core.MemoryState `json:"memory"`
}

type SaveResult struct {
	Name       string
	AgentPath  string
	MemoryPath string
	AgentErr   error
	MemoryErr  error
}

type LoadResult struct {
	Name       string
	AgentPath  string
	MemoryPath string
	// Degraded is set when the conversation was restored but its memory half
	// could not be, leaving memory at its default state.
	Degraded  bool
	MemoryErr error
}

// Info describes a saved checkpoint on disk.
type Info struct {
	Name      string
	Path      string
	ModTime   time.Time
	HasMemory bool
}

package core

import (
	"context"
	"time"
)

type StepResult struct {
	Messages         []Message
	HeartbeatRequest bool
	FunctionFailed   bool
	TokenWarning     bool
}

// Stepper advances the agent by exactly one invocation.
type Stepper interface {
	Step(ctx context.Context, msg Message, firstMessage, skipVerify bool) (StepResult, error)
}

// AgentState is the serializable agent half of a checkpoint.
type AgentState struct {
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	Model         string    `json:"model"`
	Persona       string    `json:"persona"`
	Human         string    `json:"human"`
	ContextBudget int       `json:"context_budget"`
	MaxMessages   int       `json:"max_messages"`
	WarnThreshold float64   `json:"warn_threshold"`
	MemoryAlerted bool      `json:"memory_alerted"`
	Window        []Message `json:"window"`
}

// Restorable is implemented by agents whose state can be captured and
// replaced in place, keeping outstanding references valid.
type Restorable interface {
	AgentState() AgentState
	RestoreAgent(state AgentState) error
	Memory() PersistenceManager
	RestoreMemory(state MemoryState) error
	ResetMemory(ctx context.Context) error
}

type Agent interface {
	Stepper
	Restorable
	Model() string
	SetModel(ctx context.Context, model string) error
	Window() []Message
	Pop(n int) []Message
	Reset(ctx context.Context) error
}

type ChatProvider interface {
	Chat(ctx context.Context, history []Message) (Message, error)
}

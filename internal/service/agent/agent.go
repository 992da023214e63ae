package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/memory"
	"github.com/sandevgo/tuskmem/pkg/log"
)

const firstMessageAttempts = 3

var ErrEmptyReply = errors.New("agent returned an empty first reply")

// Backend is the model endpoint the agent talks to. The model can be
// switched between steps.
type Backend interface {
	core.ChatProvider
	GetModel() string
	SetModel(ctx context.Context, model string) error
}

// Agent is a chat-completion stepper over tiered memory. Each step sends the
// system prompt, the working window and the incoming message to the backend,
// then records the message and the reply together.
type Agent struct {
	mu sync.RWMutex

	backend Backend
	prompt  *SysPrompt
	opts    memory.Options
	window  *memory.Window
	mem     core.PersistenceManager

	name          string
	createdAt     time.Time
	persona       string
	human         string
	warnThreshold float64
	alerted       bool
}

func NewAgent(
	cfg *config.AppConfig,
	backend Backend,
	counter core.TokenCounter,
	opts memory.Options,
) (*Agent, error) {
	window := memory.NewWindow(cfg.ContextBudget, cfg.ContextWindowSize, counter)
	mem, err := memory.New(opts, window)
	if err != nil {
		return nil, fmt.Errorf("create memory: %w", err)
	}

	now := time.Now()
	return &Agent{
		backend:       backend,
		prompt:        NewSysPrompt(cfg.GetPersonasPath(), cfg.GetHumansPath()),
		opts:          opts,
		window:        window,
		mem:           mem,
		name:          "agent_" + now.Format("20060102_150405"),
		createdAt:     now,
		persona:       cfg.Persona,
		human:         cfg.Human,
		warnThreshold: cfg.WarnThreshold,
	}, nil
}

func (a *Agent) Step(ctx context.Context, msg core.Message, firstMessage, skipVerify bool) (core.StepResult, error) {
	logger := log.FromCtx(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	attempts := 1
	if firstMessage && !skipVerify {
		attempts = firstMessageAttempts
	}

	// Nothing is recorded until the backend has answered, so a failed step
	// leaves window and recall as they were.
	history := append(a.prompt.Build(a.persona, a.human, a.mem.Stats()), a.window.Messages()...)
	history = append(history, msg)

	var (
		reply  core.Message
		parsed parsedReply
	)
	for i := 0; i < attempts; i++ {
		var err error
		reply, err = a.backend.Chat(ctx, history)
		if err != nil {
			return core.StepResult{}, fmt.Errorf("chat: %w", err)
		}
		parsed = parseReply(reply.Content)
		if !firstMessage || skipVerify || parsed.content != "" {
			break
		}
		logger.Warn().Int("attempt", i+1).Msg("first reply failed verification")
	}
	if firstMessage && !skipVerify && parsed.content == "" {
		return core.StepResult{}, ErrEmptyReply
	}
	reply.Content = parsed.content

	if err := a.mem.AppendToRecall(ctx, msg); err != nil {
		return core.StepResult{}, fmt.Errorf("record message: %w", err)
	}
	if err := a.mem.AppendToRecall(ctx, reply); err != nil {
		return core.StepResult{}, fmt.Errorf("record reply: %w", err)
	}

	pressure := a.window.Pressure()
	warn := false
	if pressure >= a.warnThreshold {
		warn = !a.alerted
		a.alerted = true
	} else {
		a.alerted = false
	}

	logger.Debug().
		Int("window", a.window.Len()).
		Int("tokens", a.window.Tokens()).
		Float64("pressure", pressure).
		Bool("token_warning", warn).
		Bool("heartbeat", parsed.heartbeat).
		Bool("function_failed", parsed.failed).
		Msg("agent step")

	return core.StepResult{
		Messages:         []core.Message{reply},
		HeartbeatRequest: parsed.heartbeat,
		FunctionFailed:   parsed.failed,
		TokenWarning:     warn,
	}, nil
}

func (a *Agent) Model() string {
	return a.backend.GetModel()
}

func (a *Agent) SetModel(ctx context.Context, model string) error {
	return a.backend.SetModel(ctx, model)
}

func (a *Agent) Window() []core.Message {
	return a.window.Messages()
}

// Pop removes up to n of the newest window messages. The recall log keeps them.
func (a *Agent) Pop(n int) []core.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.window.Pop(n)
}

// Reset discards the conversation and starts over with a fresh manager of
// the configured kind.
func (a *Agent) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.window.Clear()
	mem, err := memory.New(a.opts, a.window)
	if err != nil {
		return fmt.Errorf("reset memory: %w", err)
	}
	a.mem = mem
	a.alerted = false

	log.FromCtx(ctx).Info().Str("kind", string(mem.Kind())).Msg("agent reset")
	return nil
}

func (a *Agent) AgentState() core.AgentState {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return core.AgentState{
		Name:          a.name,
		CreatedAt:     a.createdAt,
		Model:         a.backend.GetModel(),
		Persona:       a.persona,
		Human:         a.human,
		ContextBudget: a.window.Budget(),
		MaxMessages:   a.window.MaxMessages(),
		WarnThreshold: a.warnThreshold,
		MemoryAlerted: a.alerted,
		Window:        a.window.Messages(),
	}
}

// RestoreAgent replaces the agent half in place. The window keeps its
// configured bounds; the memory manager is left for RestoreMemory.
func (a *Agent) RestoreAgent(state core.AgentState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if state.Model != "" && state.Model != a.backend.GetModel() {
		if err := a.backend.SetModel(context.Background(), state.Model); err != nil {
			return fmt.Errorf("restore model: %w", err)
		}
	}

	a.name = state.Name
	a.createdAt = state.CreatedAt
	a.persona = state.Persona
	a.human = state.Human
	if state.WarnThreshold > 0 {
		a.warnThreshold = state.WarnThreshold
	}
	a.alerted = state.MemoryAlerted
	a.window.Replace(state.Window)
	return nil
}

func (a *Agent) Memory() core.PersistenceManager {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mem
}

func (a *Agent) RestoreMemory(state core.MemoryState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	mem, err := memory.Restore(state, a.window, a.opts.Embedder)
	if err != nil {
		return err
	}
	a.mem = mem
	return nil
}

// ResetMemory replaces the manager with a fresh one of the configured kind
// whose recall log starts with the current window.
func (a *Agent) ResetMemory(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	mem, err := memory.Seed(a.opts, a.window)
	if err != nil {
		return fmt.Errorf("seed memory: %w", err)
	}
	a.mem = mem

	log.FromCtx(ctx).Warn().Str("kind", string(mem.Kind())).Msg("memory reset after degraded load")
	return nil
}

var _ core.Agent = (*Agent)(nil)

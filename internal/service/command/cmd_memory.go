package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/checkpoint"
)

const (
	defaultPop      = 2
	previewLen      = 120
	archivalPreview = 10
)

// MemoryCommand shows what the agent remembers without changing anything.
type MemoryCommand struct {
	agent     core.Agent
	store     *checkpoint.Store
	formatter *ResponseFormatter
}

func NewMemoryCommand(agent core.Agent, store *checkpoint.Store) *MemoryCommand {
	return &MemoryCommand{
		agent:     agent,
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *MemoryCommand) Name() string        { return "memory" }
func (c *MemoryCommand) Description() string { return "Show window, recall and archival memory" }

func (c *MemoryCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	mem := c.agent.Memory()
	stats := mem.Stats()

	sections := []string{
		c.formatter.Info("Memory"),
		c.formatter.Label("Kind", string(stats.Kind)),
		c.formatter.Label("Window", fmt.Sprintf("%d messages, %d/%d tokens", stats.WindowMessages, stats.WindowTokens, stats.WindowBudget)),
		c.formatter.Label("Recall", fmt.Sprintf("%d messages", stats.RecallMessages)),
		c.formatter.Label("Archival", fmt.Sprintf("%d entries", stats.ArchivalEntries)),
	}

	if window := mem.WindowMessages(); len(window) > 0 {
		sections = append(sections, c.formatter.Section("🪟", "Working window", c.formatter.List(previewMessages(window))))
	}

	if archival := mem.Archival(); len(archival) > 0 {
		n := min(len(archival), archivalPreview)
		items := make([]string, n)
		for i := range n {
			items[i] = fmt.Sprintf("#%d %s", i, preview(archival[i].Content))
		}
		if len(archival) > n {
			items = append(items, fmt.Sprintf("... and %d more", len(archival)-n))
		}
		sections = append(sections, c.formatter.Section("🗄", "Archival", c.formatter.List(items)))
	}

	if c.store != nil {
		infos, err := c.store.List()
		if err != nil {
			return core.CommandResult{}, err
		}
		if len(infos) > 0 {
			items := make([]string, len(infos))
			for i, info := range infos {
				items[i] = info.Name
				if !info.HasMemory {
					items[i] += " (agent only)"
				}
			}
			sections = append(sections, c.formatter.Section("💾", "Checkpoints", c.formatter.List(items)))
		}
	}

	return core.CommandResult{Output: c.formatter.Combine(sections...)}, nil
}

type PopCommand struct {
	agent     core.Agent
	formatter *ResponseFormatter
}

func NewPopCommand(agent core.Agent) *PopCommand {
	return &PopCommand{agent: agent, formatter: NewResponseFormatter()}
}

func (c *PopCommand) Name() string        { return "pop" }
func (c *PopCommand) Description() string { return "Remove the newest messages from the window (default 2)" }

func (c *PopCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	n := defaultPop
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return core.CommandResult{}, fmt.Errorf("pop count must be a positive number, got %q", args[0])
		}
		n = v
	}

	popped := c.agent.Pop(n)
	return core.CommandResult{
		Output: c.formatter.Success(fmt.Sprintf("Popped %d messages", len(popped))),
	}, nil
}

// WipeCommand drops the conversation and starts from a fresh memory manager.
type WipeCommand struct {
	agent     core.Agent
	formatter *ResponseFormatter
}

func NewWipeCommand(agent core.Agent) *WipeCommand {
	return &WipeCommand{agent: agent, formatter: NewResponseFormatter()}
}

func (c *WipeCommand) Name() string        { return "wipe" }
func (c *WipeCommand) Description() string { return "Discard the conversation and memory" }

func (c *WipeCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	if err := c.agent.Reset(ctx); err != nil {
		return core.CommandResult{}, err
	}
	return core.CommandResult{Output: c.formatter.Success("Agent state wiped")}, nil
}

type DumpCommand struct {
	agent     core.Agent
	formatter *ResponseFormatter
}

func NewDumpCommand(agent core.Agent) *DumpCommand {
	return &DumpCommand{agent: agent, formatter: NewResponseFormatter()}
}

func (c *DumpCommand) Name() string        { return "dump" }
func (c *DumpCommand) Description() string { return "Print the working window" }

func (c *DumpCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	window := c.agent.Window()
	if len(window) == 0 {
		return core.CommandResult{Output: c.formatter.Info("Working window is empty")}, nil
	}

	var sb strings.Builder
	for _, m := range window {
		fmt.Fprintf(&sb, "**%s**: %s\n\n", m.Role, m.Content)
	}
	return core.CommandResult{Output: sb.String()}, nil
}

type SaveChatCommand struct {
	agent     core.Agent
	dir       string
	now       func() time.Time
	formatter *ResponseFormatter
}

func NewSaveChatCommand(agent core.Agent, dir string) *SaveChatCommand {
	return &SaveChatCommand{
		agent:     agent,
		dir:       dir,
		now:       time.Now,
		formatter: NewResponseFormatter(),
	}
}

func (c *SaveChatCommand) Name() string        { return "savechat" }
func (c *SaveChatCommand) Description() string { return "Write the working window to a transcript file" }

func (c *SaveChatCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	path, err := checkpoint.WriteTranscript(c.dir, c.agent.Window(), c.now())
	if err != nil {
		return core.CommandResult{}, fmt.Errorf("save chat: %w", err)
	}
	return core.CommandResult{Output: c.formatter.Success("Saved chat to " + path)}, nil
}

func previewMessages(msgs []core.Message) []string {
	items := make([]string, len(msgs))
	for i, m := range msgs {
		items[i] = fmt.Sprintf("%s: %s", m.Role, preview(m.Content))
	}
	return items
}

func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > previewLen {
		return string(r[:previewLen-3]) + "..."
	}
	return s
}

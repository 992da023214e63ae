package command

import (
	"context"
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
)

// HeartbeatCommand hands control to the agent without operator input.
type HeartbeatCommand struct {
	now func() time.Time
}

func NewHeartbeatCommand() *HeartbeatCommand {
	return &HeartbeatCommand{now: time.Now}
}

func (c *HeartbeatCommand) Name() string        { return "heartbeat" }
func (c *HeartbeatCommand) Description() string { return "Send a heartbeat to the agent" }

func (c *HeartbeatCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	msg := core.HeartbeatMessage(core.TimerHeartbeatMessage, c.now())
	return core.CommandResult{Action: core.ActionSubmit, Message: &msg}, nil
}

type MemoryWarningCommand struct {
	now func() time.Time
}

func NewMemoryWarningCommand() *MemoryWarningCommand {
	return &MemoryWarningCommand{now: time.Now}
}

func (c *MemoryWarningCommand) Name() string        { return "memorywarning" }
func (c *MemoryWarningCommand) Description() string { return "Send a token limit warning to the agent" }

func (c *MemoryWarningCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	msg := core.TokenLimitWarning(c.now())
	return core.CommandResult{Action: core.ActionSubmit, Message: &msg}, nil
}

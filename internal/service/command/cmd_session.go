package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/checkpoint"
)

type ExitCommand struct{}

func NewExitCommand() *ExitCommand {
	return &ExitCommand{}
}

func (c *ExitCommand) Name() string        { return "exit" }
func (c *ExitCommand) Description() string { return "Save a checkpoint and end the session" }

func (c *ExitCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	return core.CommandResult{Action: core.ActionExit}, nil
}

type SaveCommand struct {
	agent     core.Agent
	store     *checkpoint.Store
	recorder  core.CheckpointRecorder
	formatter *ResponseFormatter
}

func NewSaveCommand(agent core.Agent, store *checkpoint.Store, recorder core.CheckpointRecorder) *SaveCommand {
	return &SaveCommand{
		agent:     agent,
		store:     store,
		recorder:  recorder,
		formatter: NewResponseFormatter(),
	}
}

func (c *SaveCommand) Name() string        { return "save" }
func (c *SaveCommand) Description() string { return "Save a checkpoint of the agent and its memory" }

func (c *SaveCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	res, err := c.store.SaveAndRecord(ctx, c.agent, checkpoint.TriggerManual, c.recorder)
	return core.CommandResult{
		Output: c.formatter.List(res.Summary()),
		Failed: err != nil,
	}, nil
}

type LoadCommand struct {
	agent     core.Agent
	store     *checkpoint.Store
	formatter *ResponseFormatter
}

func NewLoadCommand(agent core.Agent, store *checkpoint.Store) *LoadCommand {
	return &LoadCommand{
		agent:     agent,
		store:     store,
		formatter: NewResponseFormatter(),
	}
}

func (c *LoadCommand) Name() string        { return "load" }
func (c *LoadCommand) Description() string { return "Load a checkpoint, the newest one by default" }

func (c *LoadCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	res, err := c.store.Load(ctx, name, c.agent)
	if err != nil {
		return core.CommandResult{}, fmt.Errorf("load checkpoint: %w", err)
	}

	if res.Degraded {
		return core.CommandResult{
			Output: c.formatter.Combine(
				c.formatter.Success(fmt.Sprintf("Loaded agent from %s", res.AgentPath)),
				c.formatter.Label("Memory", "not restored, started fresh"),
				c.formatter.Label("Reason", res.MemoryErr.Error()),
			),
			Failed: true,
		}, nil
	}

	return core.CommandResult{
		Output: c.formatter.Combine(
			c.formatter.Success(fmt.Sprintf("Loaded checkpoint %s", res.Name)),
			c.formatter.Label("Agent", res.AgentPath),
			c.formatter.Label("Memory", res.MemoryPath),
		),
	}, nil
}

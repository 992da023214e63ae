package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
)

type ModelCommand struct {
	agent     core.Agent
	lister    core.ModelLister
	formatter *ResponseFormatter
}

func NewModelCommand(agent core.Agent, lister core.ModelLister) *ModelCommand {
	return &ModelCommand{
		agent:     agent,
		lister:    lister,
		formatter: NewResponseFormatter(),
	}
}

func (c *ModelCommand) Name() string {
	return "model"
}

func (c *ModelCommand) Description() string {
	return "Switch between gpt-4 and gpt-3.5-turbo, set a model, or list models"
}

func (c *ModelCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	if len(args) > 0 && strings.EqualFold(args[0], "list") {
		return c.list(ctx)
	}

	var target string
	if len(args) > 0 {
		target = args[0]
	} else if c.agent.Model() == config.DefaultModel {
		target = config.AlternateModel
	} else {
		target = config.DefaultModel
	}

	if err := c.agent.SetModel(ctx, target); err != nil {
		return core.CommandResult{}, fmt.Errorf("failed to set model: %w", err)
	}

	return core.CommandResult{
		Output: c.formatter.Success(fmt.Sprintf("Model changed to: `%s`", c.agent.Model())),
	}, nil
}

func (c *ModelCommand) list(ctx context.Context) (core.CommandResult, error) {
	if c.lister == nil {
		return core.CommandResult{}, fmt.Errorf("model listing is not available")
	}
	models, err := c.lister.Models(ctx)
	if err != nil {
		return core.CommandResult{}, fmt.Errorf("list models: %w", err)
	}

	items := make([]string, len(models))
	for i, m := range models {
		items[i] = fmt.Sprintf("`%s`", m.ID)
		if m.ContextLength > 0 {
			items[i] += fmt.Sprintf(" (%d tokens)", m.ContextLength)
		}
	}

	return core.CommandResult{
		Output: c.formatter.Combine(
			c.formatter.Info("Available Models"),
			c.formatter.Label("Current", c.agent.Model()),
			c.formatter.List(items),
			c.formatter.Usage("/model [name]"),
		),
	}, nil
}

package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/tuskmem/internal/core"
)

type HelpCommand struct {
	router    core.CmdRouter
	formatter *ResponseFormatter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{router: router, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List available commands" }

func (c *HelpCommand) Execute(ctx context.Context, args []string) (core.CommandResult, error) {
	cmds := c.router.ListCommands()
	items := make([]string, len(cmds))
	for i, cmd := range cmds {
		items[i] = fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description())
	}
	return core.CommandResult{
		Output: c.formatter.Combine(c.formatter.Info("Commands"), c.formatter.List(items)),
	}, nil
}

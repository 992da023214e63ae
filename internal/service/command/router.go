package command

import (
	"context"
	"sort"
	"strings"

	"github.com/sandevgo/tuskmem/internal/core"
)

type Router struct {
	commands  map[string]core.Command
	formatter *ResponseFormatter
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands:  make(map[string]core.Command),
		formatter: NewResponseFormatter(),
	}

	for _, cmd := range commands {
		c.Register(cmd)
	}
	return c
}

func (c *Router) Register(cmd core.Command) {
	c.commands[strings.ToLower(cmd.Name())] = cmd
}

// Execute runs a slash command. Command names are matched case-insensitively.
func (c *Router) Execute(ctx context.Context, input string) (core.CommandResult, bool) {
	if !strings.HasPrefix(input, "/") {
		return core.CommandResult{}, false
	}

	parts := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return core.CommandResult{Output: "Unrecognized command: /" + name, Failed: true}, true
	}

	result, err := cmd.Execute(ctx, args)
	if err != nil {
		return core.CommandResult{Output: c.formatter.Error(name, err), Failed: true}, true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

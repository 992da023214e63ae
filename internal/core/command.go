package core

import "context"

type CommandAction int

const (
	ActionNone CommandAction = iota
	ActionSubmit
	ActionExit
)

type CommandResult struct {
	Output  string
	Failed  bool
	Action  CommandAction
	Message *Message
}

type CmdRouter interface {
	Execute(ctx context.Context, input string) (CommandResult, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string) (CommandResult, error)
}

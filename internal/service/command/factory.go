package command

import (
	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/checkpoint"
)

// NewCommands wires the operator command surface into a router.
func NewCommands(
	cfg *config.AppConfig,
	agent core.Agent,
	lister core.ModelLister,
	store *checkpoint.Store,
	recorder core.CheckpointRecorder,
) *Router {
	router := New([]core.Command{
		NewExitCommand(),
		NewSaveCommand(agent, store, recorder),
		NewLoadCommand(agent, store),
		NewMemoryCommand(agent, store),
		NewModelCommand(agent, lister),
		NewPopCommand(agent),
		NewWipeCommand(agent),
		NewHeartbeatCommand(),
		NewMemoryWarningCommand(),
		NewDumpCommand(agent),
		NewSaveChatCommand(agent, cfg.GetSavedChatsPath()),
	})
	router.Register(NewHelpCommand(router))
	return router
}

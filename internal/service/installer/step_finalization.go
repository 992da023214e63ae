package installer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/tuskmem/internal/config"
)

// FinalizationStep fills in defaults for anything the operator was not asked
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return next
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	defaults := map[string]string{
		envTransport:   "cli",
		envModel:       config.DefaultModel,
		envDebug:       "0",
		"TUSK_PERSONA": defaultPersona,
		"TUSK_HUMAN":   defaultHuman,
	}
	for key, value := range defaults {
		if state.EnvVars[key] == "" {
			state.EnvVars[key] = value
		}
	}
}

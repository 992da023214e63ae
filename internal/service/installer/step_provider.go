package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/tuskmem/internal/config"
)

type choice struct {
	id    string
	title string
}

// ProviderStep allows selection of the LLM backend
type ProviderStep struct {
	choices []choice
	cursor  int
}

func NewProviderStep() Step {
	return &ProviderStep{
		choices: []choice{
			{config.ProviderOpenAI, "OpenAI"},
			{config.ProviderAzure, "Azure OpenAI"},
			{config.ProviderAnthropic, "Anthropic"},
			{config.ProviderOpenRouter, "OpenRouter"},
			{config.ProviderOllama, "Ollama"},
			{config.ProviderCustom, "Custom OpenAI-compatible"},
		},
	}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			selected := s.choices[s.cursor].id
			if selected == config.ProviderAzure {
				state.EnvVars[envUseAzure] = "true"
				selected = config.ProviderOpenAI
			}
			state.EnvVars[envProvider] = selected
			return nil, nil
		}
	}
	return s, nil
}

func (s *ProviderStep) View(state *InstallState) string {
	return renderChoices("Select your LLM backend:", s.choices, s.cursor)
}

func renderChoices(title string, choices []choice, cursor int) string {
	var b strings.Builder
	b.WriteString(title + "\n\n")
	for i, c := range choices {
		if cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("❯ %s", c.title)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.title)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/tuskmem/internal/config"
)

type field struct {
	env         string
	title       string
	placeholder string
	secret      bool
	optional    bool
	value       string // default when left empty
}

// credentialFields lists what each backend needs, in the order asked.
func credentialFields(state *InstallState) []field {
	if state.EnvVars[envUseAzure] == "true" {
		return []field{
			{env: "AZURE_OPENAI_ENDPOINT", title: "Azure OpenAI endpoint", placeholder: "https://my-resource.openai.azure.com"},
			{env: "AZURE_OPENAI_KEY", title: "Azure OpenAI key", secret: true},
			{env: "AZURE_OPENAI_VERSION", title: "Azure OpenAI API version", value: "2023-05-15"},
			{env: "AZURE_OPENAI_DEPLOYMENT", title: "Chat deployment name"},
			{env: "AZURE_OPENAI_EMBEDDING_DEPLOYMENT", title: "Embedding deployment name", optional: true},
		}
	}

	switch state.Provider() {
	case config.ProviderOpenAI:
		return []field{{env: "OPENAI_API_KEY", title: "OpenAI API Key", placeholder: "sk-...", secret: true}}
	case config.ProviderAnthropic:
		return []field{{env: "ANTHROPIC_API_KEY", title: "Anthropic API Key", placeholder: "sk-ant-...", secret: true}}
	case config.ProviderOpenRouter:
		return []field{{env: "OPENROUTER_API_KEY", title: "OpenRouter API Key", placeholder: "sk-or-v1-...", secret: true}}
	case config.ProviderOllama:
		return []field{
			{env: "OLLAMA_BASE_URL", title: "Ollama URL", value: "http://localhost:11434"},
			{env: "OLLAMA_API_KEY", title: "Ollama API Key", secret: true, optional: true},
		}
	case config.ProviderCustom:
		return []field{
			{env: "CUSTOM_OPENAI_BASE_URL", title: "Custom OpenAI Base URL", placeholder: "https://api.example.com"},
			{env: "CUSTOM_OPENAI_API_KEY", title: "API Key", secret: true, optional: true},
		}
	default:
		return nil
	}
}

// CredentialsStep asks for every field the selected backend needs.
type CredentialsStep struct {
	fields  []field
	current int
	input   textinput.Model
	loaded  bool
	missing bool
}

func NewCredentialsStep() Step {
	return &CredentialsStep{}
}

func (s *CredentialsStep) Init() tea.Cmd {
	return nil
}

func (s *CredentialsStep) load(state *InstallState) {
	s.fields = credentialFields(state)
	s.loaded = true
	if len(s.fields) > 0 {
		s.input = newFieldInput(s.fields[0])
	}
}

func newFieldInput(f field) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = f.placeholder
	if f.value != "" {
		ti.Placeholder = f.value
	}
	if f.secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

func (s *CredentialsStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.loaded {
		s.load(state)
	}
	if s.current >= len(s.fields) {
		return nil, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		f := s.fields[s.current]
		value := strings.TrimSpace(s.input.Value())
		if value == "" {
			value = f.value
		}
		if value == "" && !f.optional {
			s.missing = true
			return s, nil
		}

		if value != "" {
			state.EnvVars[f.env] = value
		}
		s.missing = false
		s.current++
		if s.current >= len(s.fields) {
			return nil, nil
		}
		s.input = newFieldInput(s.fields[s.current])
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *CredentialsStep) View(state *InstallState) string {
	if !s.loaded {
		s.load(state)
	}
	if s.current >= len(s.fields) {
		return "Loading...\n"
	}

	f := s.fields[s.current]
	hint := ""
	if f.optional {
		hint = " (optional - press Enter to skip)"
	}

	view := fmt.Sprintf("Enter your %s%s:\n\n%s\n\n", f.title, hint, s.input.View())
	if s.missing {
		view += errorStyle.Render("A value is required.") + "\n\n"
	}
	return view + "(press enter to confirm)\n"
}

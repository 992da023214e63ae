package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func down() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyDown}
}

func typeText(t *testing.T, s Step, state *InstallState, text string) Step {
	t.Helper()
	for _, r := range text {
		var next Step
		next, _ = s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, state, 80, 24)
		require.NotNil(t, next)
		s = next
	}
	return s
}

func TestProviderStep_Azure(t *testing.T) {
	state := NewInstallState(t.TempDir())
	var s Step = NewProviderStep()

	s, _ = s.Update(down(), state, 80, 24)
	next, _ := s.Update(enter, state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, config.ProviderOpenAI, state.Provider())
	assert.Equal(t, "true", state.EnvVars[envUseAzure])
	assert.Equal(t, config.ProviderAzure, state.Backend().Selected())
}

func TestCredentialsStep_Ollama(t *testing.T) {
	state := NewInstallState(t.TempDir())
	state.EnvVars[envProvider] = config.ProviderOllama

	var s Step = NewCredentialsStep()
	// Empty URL takes the default, empty key is optional.
	s, _ = s.Update(enter, state, 80, 24)
	require.NotNil(t, s)
	next, _ := s.Update(enter, state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, "http://localhost:11434", state.EnvVars["OLLAMA_BASE_URL"])
	assert.NotContains(t, state.EnvVars, "OLLAMA_API_KEY")
}

func TestCredentialsStep_RequiredField(t *testing.T) {
	state := NewInstallState(t.TempDir())
	state.EnvVars[envProvider] = config.ProviderOpenAI

	var s Step = NewCredentialsStep()
	s, _ = s.Update(enter, state, 80, 24)
	require.NotNil(t, s)
	assert.Contains(t, s.View(state), "required")

	s = typeText(t, s, state, "sk-test")
	next, _ := s.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "sk-test", state.EnvVars["OPENAI_API_KEY"])
	require.NoError(t, state.Backend().Validate())
}

func TestModelStep(t *testing.T) {
	state := NewInstallState(t.TempDir())
	lister := func(ctx context.Context, state *InstallState) ([]core.Model, error) {
		return []core.Model{{ID: "gpt-4"}, {ID: "gpt-3.5-turbo"}}, nil
	}

	s := newModelStep(lister)
	step, cmd := s.Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, step)
	require.NotNil(t, cmd)

	step, _ = step.Update(cmd(), state, 80, 24)
	next, _ := step.Update(enter, state, 80, 24)

	assert.Nil(t, next)
	assert.Equal(t, "gpt-3.5-turbo", state.EnvVars[envModel])
}

func TestModelStep_SkipOnError(t *testing.T) {
	state := NewInstallState(t.TempDir())
	lister := func(ctx context.Context, state *InstallState) ([]core.Model, error) {
		return nil, errors.New("unauthorized")
	}

	s := newModelStep(lister)
	step, cmd := s.Update(nextMsg{}, state, 80, 24)
	step, _ = step.Update(cmd(), state, 80, 24)
	assert.Contains(t, step.View(state), "unauthorized")

	next, _ := step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, config.DefaultModel, state.EnvVars[envModel])
}

func TestTelegramSteps_SkippedForTerminal(t *testing.T) {
	state := NewInstallState(t.TempDir())
	state.EnvVars[envTransport] = "cli"

	next, _ := NewTelegramTokenStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
	next, _ = NewTelegramOwnerStep().Update(nextMsg{}, state, 80, 24)
	assert.Nil(t, next)
}

func TestTelegramOwnerStep_Numeric(t *testing.T) {
	state := NewInstallState(t.TempDir())
	state.EnvVars[envTransport] = "telegram"

	s := typeText(t, NewTelegramOwnerStep(), state, "abc")
	s, _ = s.Update(enter, state, 80, 24)
	require.NotNil(t, s)
	assert.NotContains(t, state.EnvVars, envTgOwner)
}

func TestSetup_WritesEnvAndProfiles(t *testing.T) {
	dir := t.TempDir()
	state := NewInstallState(dir)
	state.EnvVars[envProvider] = config.ProviderOpenAI
	state.EnvVars["OPENAI_API_KEY"] = "sk-test"
	finalize(state)

	next, _ := NewSaveEnvStep().Update(nextMsg{}, state, 80, 24)
	require.Nil(t, next)
	next, _ = NewInitializeFilesStep().Update(nextMsg{}, state, 80, 24)
	require.Nil(t, next)

	values, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", values["OPENAI_API_KEY"])
	assert.Equal(t, "cli", values[envTransport])
	assert.Equal(t, config.DefaultModel, values[envModel])

	_, err = os.Stat(filepath.Join(dir, "personas", defaultPersona+".txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "humans", defaultHuman+".txt"))
	assert.NoError(t, err)

	// A second run keeps the existing .env.
	s := NewSaveEnvStep()
	step, _ := s.Update(nextMsg{}, state, 80, 24)
	require.NotNil(t, step)
	assert.Contains(t, step.View(state), "already exists")
}

func TestWriteProfiles_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "personas", defaultPersona+".txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(custom), 0755))
	require.NoError(t, os.WriteFile(custom, []byte("mine"), 0644))

	written, err := writeProfiles(dir)
	require.NoError(t, err)
	assert.NotContains(t, written, custom)

	data, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

// doneStep finishes on the first message it sees.
type doneStep struct{ name string }

func (s doneStep) Init() tea.Cmd { return next }
func (s doneStep) Update(tea.Msg, *InstallState, int, int) (Step, tea.Cmd) {
	return nil, nil
}
func (s doneStep) View(*InstallState) string { return s.name }

func TestWizard_AdvancesAndQuits(t *testing.T) {
	w := newWizard(t.TempDir(), []Step{doneStep{"first"}, doneStep{"second"}})
	assert.Contains(t, w.View(), "(1/2)")
	assert.Contains(t, w.View(), "first")

	m, cmd := w.Update(nextMsg{})
	w = m.(wizard)
	require.NotNil(t, cmd)
	assert.Contains(t, w.View(), "(2/2)")
	assert.Contains(t, w.View(), "second")

	m, _ = w.Update(nextMsg{})
	w = m.(wizard)
	assert.True(t, w.done())
	assert.False(t, w.quitting)
	assert.Equal(t, "Configuration complete!\n", w.View())
}

func TestWizard_CtrlCCancels(t *testing.T) {
	w := newWizard(t.TempDir(), []Step{NewProviderStep()})

	m, _ := w.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	w = m.(wizard)
	assert.True(t, w.quitting)
	assert.False(t, w.done())
	assert.Equal(t, "Setup cancelled.\n", w.View())
}

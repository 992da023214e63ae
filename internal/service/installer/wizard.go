package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/tuskmem/internal/core"
)

var ErrInterrupted = errors.New("setup interrupted")

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	itemStyle     = lipgloss.NewStyle().PaddingLeft(2)
	selStyle      = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one screen of the setup wizard. Update returns nil once the step
// is done, or a replacement step to branch.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func defaultSteps() []Step {
	return []Step{
		NewProviderStep(),
		NewCredentialsStep(),
		NewModelStep(),
		NewChannelStep(),
		NewTelegramTokenStep(),
		NewTelegramOwnerStep(),
		NewFinalizationStep(),
		NewSaveEnvStep(),
		NewInitializeFilesStep(),
	}
}

type item struct {
	id    string
	title string
	desc  string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.id }

type modelsMsg []list.Item
type errMsg error
type nextMsg struct{}

// next nudges a step that has work to do before any key is pressed.
func next() tea.Msg { return nextMsg{} }

type wizard struct {
	steps    []Step
	current  int
	state    *InstallState
	quitting bool
	width    int
	height   int
}

func newWizard(runtimePath string, steps []Step) wizard {
	return wizard{
		steps: steps,
		state: NewInstallState(runtimePath),
	}
}

func (w wizard) done() bool { return w.current >= len(w.steps) }

func (w wizard) Init() tea.Cmd {
	if w.done() {
		return tea.Quit
	}
	return w.steps[0].Init()
}

func (w wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width, w.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			w.quitting = true
			return w, tea.Quit
		}
	}

	if w.done() {
		return w, tea.Quit
	}

	step, cmd := w.steps[w.current].Update(msg, w.state, w.width, w.height)
	if step == nil {
		w.current++
		if w.done() {
			return w, tea.Quit
		}
		return w, w.steps[w.current].Init()
	}

	w.steps[w.current] = step
	return w, cmd
}

func (w wizard) View() string {
	if w.quitting {
		return "Setup cancelled.\n"
	}
	if w.done() {
		return "Configuration complete!\n"
	}

	header := titleStyle.Render("Setting up "+core.TuskName) + " " +
		progressStyle.Render(fmt.Sprintf("(%d/%d)", w.current+1, len(w.steps)))
	return header + "\n\n" + w.steps[w.current].View(w.state)
}

// RunWizard collects the configuration and writes it under runtimePath.
func RunWizard(ctx context.Context, runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(newWizard(runtimePath, defaultSteps()), tea.WithAltScreen(), tea.WithContext(ctx))
	m, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, ErrInterrupted
		}
		return nil, err
	}

	final := m.(wizard)
	if final.quitting || !final.done() {
		return nil, ErrInterrupted
	}
	return final.state, nil
}

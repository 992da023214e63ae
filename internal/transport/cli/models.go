package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// promptModel reads one message. Enter submits, alt+enter breaks the line,
// ctrl+d and ctrl+c end the input stream.
type promptModel struct {
	input     textarea.Model
	submitted bool
	eof       bool
}

func newPromptModel(width int) promptModel {
	ta := textarea.New()
	ta.Placeholder = "Send a message or /help"
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	return promptModel{input: ta}
}

func (m promptModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.SetWidth(msg.Width)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.eof = true
			return m, tea.Quit
		case "enter":
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.submitted || m.eof {
		return ""
	}
	return m.input.View() + "\n" + hintStyle.Render("enter to send, alt+enter for a new line, ctrl+d to quit") + "\n"
}

func (m promptModel) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// confirmModel answers a yes/no question; enter takes the default.
type confirmModel struct {
	question string
	answer   bool
	done     bool
	eof      bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question, answer: true}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch strings.ToLower(key.String()) {
	case "y":
		m.answer, m.done = true, true
	case "n":
		m.answer, m.done = false, true
	case "enter":
		m.done = true
	case "ctrl+c", "ctrl+d", "esc":
		m.answer, m.eof = false, true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done || m.eof {
		return ""
	}
	return promptStyle.Render("? ") + m.question + hintStyle.Render(" (Y/n)") + "\n"
}

type stopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newSpinnerModel(label string) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(agentLabel))
	return spinnerModel{spinner: s, label: label}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(stopMsg); ok {
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + eventStyle.Render(m.label)
}

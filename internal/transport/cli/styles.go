package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/tuskmem/internal/core"
)

var (
	agentLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	agentText   = lipgloss.NewStyle().PaddingLeft(2)
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	noticeStyles = map[core.NoticeLevel]lipgloss.Style{
		core.NoticeInfo:    lipgloss.NewStyle(),
		core.NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		core.NoticeWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		core.NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

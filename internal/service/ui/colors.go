package ui

import "github.com/charmbracelet/lipgloss"

// Plain ANSI colors so the terminal theme decides the exact shade.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// Checkpoint listings: both halves present, or the agent half alone.
	CompleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	PartialStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true)
)

// CheckpointHalves labels a saved agent by which halves exist on disk.
func CheckpointHalves(hasMemory bool) string {
	if hasMemory {
		return CompleteStyle.Render("agent + memory")
	}
	return PartialStyle.Render("agent only")
}

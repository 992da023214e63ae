package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandevgo/tuskmem/internal/core"
)

var profileExts = []string{"", ".txt", ".md"}

// SysPrompt assembles the system messages that lead every request. Persona
// and human profiles are passed through as they are found.
type SysPrompt struct {
	personasDir string
	humansDir   string
}

func NewSysPrompt(personasDir, humansDir string) *SysPrompt {
	return &SysPrompt{
		personasDir: personasDir,
		humansDir:   humansDir,
	}
}

// Persona resolves a persona by name from the personas directory. A value
// that names no file is used as the profile text itself.
func (p *SysPrompt) Persona(value string) string {
	return resolveProfile(p.personasDir, value)
}

func (p *SysPrompt) Human(value string) string {
	return resolveProfile(p.humansDir, value)
}

func (p *SysPrompt) Build(persona, human string, stats core.MemoryStats) []core.Message {
	messages := make([]core.Message, 0, 3)
	if content := p.Persona(persona); content != "" {
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: content})
	}
	if content := p.Human(human); content != "" {
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: content})
	}
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: memorySummary(stats)})
	return messages
}

func memorySummary(stats core.MemoryStats) string {
	hidden := stats.RecallMessages - stats.WindowMessages
	if hidden < 0 {
		hidden = 0
	}
	return fmt.Sprintf(
		"### Memory\n%d previous messages between you and the user are stored in recall memory (use functions to access them)\n"+
			"%d total memories you created are stored in archival memory (use functions to access them)\n\n%s",
		hidden, stats.ArchivalEntries, replyFormat,
	)
}

func resolveProfile(dir, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if dir != "" && !strings.ContainsAny(value, "/\\\n") {
		for _, ext := range profileExts {
			content, err := os.ReadFile(filepath.Join(dir, value+ext))
			if err == nil {
				return string(content)
			}
		}
	}
	return value
}

// Package cli drives a session from the terminal.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/conv"
	"github.com/sandevgo/tuskmem/pkg/log"
)

const defaultWidth = 80

type Console struct {
	in    io.Reader
	out   io.Writer
	width int
	mu    sync.Mutex
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: in, out: out, width: defaultWidth}
}

func (c *Console) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("terminal: %w", err)
	}
	return final, nil
}

// Prompt returns io.EOF once the operator closes the input.
func (c *Console) Prompt(ctx context.Context) (string, error) {
	final, err := c.run(ctx, newPromptModel(c.width))
	if err != nil {
		return "", err
	}

	m := final.(promptModel)
	if m.eof {
		return "", io.EOF
	}

	value := m.Value()
	c.print(promptStyle.Render("> ") + value)
	return value, nil
}

func (c *Console) Confirm(ctx context.Context, question string) (bool, error) {
	final, err := c.run(ctx, newConfirmModel(question))
	if err != nil {
		return false, err
	}

	m := final.(confirmModel)
	if m.eof {
		return false, io.EOF
	}
	answer := "no"
	if m.answer {
		answer = "yes"
	}
	c.print(promptStyle.Render("? ") + question + " " + eventStyle.Render(answer))
	return m.answer, nil
}

func (c *Console) Render(ctx context.Context, msgs []core.Message) {
	for _, msg := range msgs {
		switch msg.Role {
		case core.RoleAssistant:
			c.print(agentLabel.Render(core.TuskName) + "\n" + agentText.Render(msg.Content))
		case core.RoleUser:
			if line := describeEvent(msg.Content); line != "" {
				c.print(eventStyle.Render(line))
			}
		default:
			log.FromCtx(ctx).Debug().Str("role", msg.Role).Msg("skipping message")
		}
	}
}

func (c *Console) Notify(ctx context.Context, level core.NoticeLevel, text string) {
	plain, err := conv.MarkdownToText([]byte(text))
	if err != nil || strings.TrimSpace(plain) == "" {
		plain = text
	}

	style, ok := noticeStyles[level]
	if !ok {
		style = noticeStyles[core.NoticeInfo]
	}
	c.print(style.Render(strings.TrimRight(plain, "\n")))
}

// Busy shows a spinner until stop is called. stop is safe to call twice.
func (c *Console) Busy(ctx context.Context, label string) func() {
	p := tea.NewProgram(newSpinnerModel(label),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(c.out),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			log.FromCtx(ctx).Debug().Err(err).Msg("spinner stopped")
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.Send(stopMsg{})
			<-done
		})
	}
}

func (c *Console) print(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, text)
}

// describeEvent turns a packaged user-side message into a one-line log
// entry. Operator input is echoed by Prompt and is not repeated.
func describeEvent(content string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return ""
	}

	kind, _ := payload["type"].(string)
	switch kind {
	case "user_message", "":
		return ""
	case "heartbeat":
		reason, _ := payload["reason"].(string)
		return "[heartbeat] " + strings.TrimPrefix(reason, core.NonUserMsgPrefix)
	default:
		text, _ := payload["message"].(string)
		if text == "" {
			return "[" + kind + "]"
		}
		return "[" + kind + "] " + text
	}
}

var _ core.Console = (*Console)(nil)

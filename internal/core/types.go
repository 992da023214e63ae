package core

import (
	"context"
	"time"
)

const (
	TuskName          = "TuskMem"
	TuskUserAgent     = "TuskMem-Agent/0.1"
	TuskRepositoryURL = "https://github.com/sandevgo/tuskmem"
	TaskVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// Model describes an entry returned by a backend's model listing.
type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
}

type ModelLister interface {
	Models(ctx context.Context) ([]Model, error)
}

package core

import "context"

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeWarn
	NoticeError
)

// Console is the operator-facing surface of a session. Prompt returns
// io.EOF when the input stream ends.
type Console interface {
	Prompt(ctx context.Context) (string, error)
	Confirm(ctx context.Context, question string) (bool, error)
	Render(ctx context.Context, msgs []Message)
	Notify(ctx context.Context, level NoticeLevel, text string)
	Busy(ctx context.Context, label string) (stop func())
}

// CheckpointRecorder remembers the artifacts of the last successful save.
type CheckpointRecorder interface {
	RecordCheckpoint(agentPath, memoryPath string) error
}

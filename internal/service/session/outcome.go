package session

import (
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
)

// Continuation names why the driver keeps going without external input.
type Continuation int

const (
	Idle Continuation = iota
	ContinueTokenWarning
	ContinueFunctionRetry
	ContinueHeartbeat
)

func (c Continuation) String() string {
	switch c {
	case ContinueTokenWarning:
		return "token_warning"
	case ContinueFunctionRetry:
		return "function_failed"
	case ContinueHeartbeat:
		return "heartbeat"
	default:
		return "idle"
	}
}

type Outcome struct {
	Reason Continuation
}

// Resolve folds the step signals into one outcome. A token warning wins over
// a failed function, which wins over a requested heartbeat.
func Resolve(r core.StepResult) Outcome {
	switch {
	case r.TokenWarning:
		return Outcome{Reason: ContinueTokenWarning}
	case r.FunctionFailed:
		return Outcome{Reason: ContinueFunctionRetry}
	case r.HeartbeatRequest:
		return Outcome{Reason: ContinueHeartbeat}
	default:
		return Outcome{Reason: Idle}
	}
}

func (o Outcome) Continue() bool {
	return o.Reason != Idle
}

// NextMessage is the synthetic message submitted for a continuing outcome.
func (o Outcome) NextMessage(now time.Time) (core.Message, bool) {
	switch o.Reason {
	case ContinueTokenWarning:
		return core.TokenLimitWarning(now), true
	case ContinueFunctionRetry:
		return core.HeartbeatMessage(core.FuncFailedHeartbeatMessage, now), true
	case ContinueHeartbeat:
		return core.HeartbeatMessage(core.ReqHeartbeatMessage, now), true
	default:
		return core.Message{}, false
	}
}

func (o Outcome) String() string {
	return o.Reason.String()
}

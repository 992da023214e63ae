package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Priority(t *testing.T) {
	tests := []struct {
		name   string
		result core.StepResult
		want   Continuation
	}{
		{"no signals", core.StepResult{}, Idle},
		{"heartbeat", core.StepResult{HeartbeatRequest: true}, ContinueHeartbeat},
		{"function failed", core.StepResult{FunctionFailed: true}, ContinueFunctionRetry},
		{"token warning", core.StepResult{TokenWarning: true}, ContinueTokenWarning},
		{"failed beats heartbeat", core.StepResult{FunctionFailed: true, HeartbeatRequest: true}, ContinueFunctionRetry},
		{"warning beats heartbeat", core.StepResult{TokenWarning: true, HeartbeatRequest: true}, ContinueTokenWarning},
		{"warning beats failed", core.StepResult{TokenWarning: true, FunctionFailed: true}, ContinueTokenWarning},
		{"all signals", core.StepResult{TokenWarning: true, FunctionFailed: true, HeartbeatRequest: true}, ContinueTokenWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.result)
			assert.Equal(t, tt.want, got.Reason)
			assert.Equal(t, tt.want != Idle, got.Continue())
		})
	}
}

func payload(t *testing.T, m core.Message) map[string]string {
	t.Helper()
	var p map[string]string
	require.NoError(t, json.Unmarshal([]byte(m.Content), &p))
	return p
}

func TestOutcome_NextMessage(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	_, ok := Outcome{Reason: Idle}.NextMessage(now)
	assert.False(t, ok)

	m, ok := Outcome{Reason: ContinueTokenWarning}.NextMessage(now)
	require.True(t, ok)
	assert.Equal(t, "system_alert", payload(t, m)["type"])

	m, ok = Outcome{Reason: ContinueFunctionRetry}.NextMessage(now)
	require.True(t, ok)
	assert.Equal(t, "heartbeat", payload(t, m)["type"])
	assert.Equal(t, core.FuncFailedHeartbeatMessage, payload(t, m)["reason"])

	m, ok = Outcome{Reason: ContinueHeartbeat}.NextMessage(now)
	require.True(t, ok)
	assert.Equal(t, core.ReqHeartbeatMessage, payload(t, m)["reason"])
	assert.Equal(t, now, m.Timestamp)
}

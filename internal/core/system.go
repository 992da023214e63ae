package core

import (
	"encoding/json"
	"time"
)

const (
	NonUserMsgPrefix = "[This is an automated system message hidden from the user] "

	ReqHeartbeatMessage        = NonUserMsgPrefix + "Function called using request_heartbeat=true, returning control"
	FuncFailedHeartbeatMessage = NonUserMsgPrefix + "Function call failed, returning control"
	TimerHeartbeatMessage      = NonUserMsgPrefix + "Automated timer"

	MemoryWarningMessage = "Warning: the conversation history will soon reach its maximum length and be trimmed. " +
		"Make sure to save any important information from the conversation to your memory before it is removed."

	systemTimeLayout = "2006-01-02 03:04:05 PM MST-0700"
)

// UserMessage packages operator input the way the agent expects it.
func UserMessage(text string, now time.Time) Message {
	return packed(RoleUser, now, map[string]any{
		"type":    "user_message",
		"message": text,
		"time":    now.Format(systemTimeLayout),
	})
}

func HeartbeatMessage(reason string, now time.Time) Message {
	return packed(RoleUser, now, map[string]any{
		"type":   "heartbeat",
		"reason": reason,
		"time":   now.Format(systemTimeLayout),
	})
}

func TokenLimitWarning(now time.Time) Message {
	return packed(RoleUser, now, map[string]any{
		"type":    "system_alert",
		"message": MemoryWarningMessage,
		"time":    now.Format(systemTimeLayout),
	})
}

func LoginMessage(now time.Time) Message {
	return packed(RoleUser, now, map[string]any{
		"type":       "login",
		"last_login": "Never (first login)",
		"time":       now.Format(systemTimeLayout),
	})
}

// ArchivalLoadedMessage announces a tabular archival source to the agent.
func ArchivalLoadedMessage(source, schema string, now time.Time) Message {
	return packed(RoleUser, now, map[string]any{
		"type":    "system_alert",
		"message": "Your archival memory has been loaded with a SQL database called " + source + ", which contains schema " + schema +
			". Remember to refer to this first while answering any user questions!",
		"time":    now.Format(systemTimeLayout),
	})
}

func packed(role string, now time.Time, payload map[string]any) Message {
	// map[string]any with string values never fails to marshal
	data, _ := json.Marshal(payload)
	return Message{Role: role, Content: string(data), Timestamp: now}
}

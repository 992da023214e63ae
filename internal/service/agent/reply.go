package agent

import (
	"bytes"
	"encoding/json"
	"strings"
)

// replyFormat tells the model how to keep control of the conversation.
const replyFormat = "### Replies\n" +
	"Answer in plain text, or with a JSON object " +
	`{"message": "<text for the user>", "request_heartbeat": true}` +
	" when you want to continue without waiting for the user."

type replyEnvelope struct {
	Message          *string `json:"message"`
	RequestHeartbeat bool    `json:"request_heartbeat"`
}

// parsedReply is a model reply with its control signals split off.
type parsedReply struct {
	content   string
	heartbeat bool
	// failed marks a reply that opened a JSON envelope the agent could not use.
	failed bool
}

// parseReply reads the optional JSON envelope, fenced or bare. Plain text
// carries no signals. An object without a usable message is a failed call
// and its raw text is kept.
func parseReply(content string) parsedReply {
	body := unfence(strings.TrimSpace(content))
	if !strings.HasPrefix(body, "{") {
		return parsedReply{content: content}
	}

	var env replyEnvelope
	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	if err := dec.Decode(&env); err != nil || env.Message == nil || dec.More() {
		return parsedReply{content: content, failed: true}
	}
	return parsedReply{content: *env.Message, heartbeat: env.RequestHeartbeat}
}

// unfence strips a surrounding ``` or ```json code fence.
func unfence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 && !strings.Contains(inner[:nl], "{") {
		inner = inner[nl+1:]
	}
	return strings.TrimSpace(inner)
}

package memory

import (
	"strings"
	"sync"

	"github.com/sandevgo/tuskmem/internal/core"
)

// RecallLog is the append-only record of every message the window has held.
type RecallLog struct {
	mu       sync.RWMutex
	messages []core.Message
}

func NewRecallLog(msgs []core.Message) *RecallLog {
	return &RecallLog{messages: append([]core.Message(nil), msgs...)}
}

func (r *RecallLog) Append(msg core.Message) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
}

func (r *RecallLog) Messages() []core.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]core.Message(nil), r.messages...)
}

func (r *RecallLog) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

// Search returns up to k messages containing query, newest first.
func (r *RecallLog) Search(query string, k int) []core.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	var hits []core.Message
	for i := len(r.messages) - 1; i >= 0 && len(hits) < k; i-- {
		if needle == "" || strings.Contains(strings.ToLower(r.messages[i].Content), needle) {
			hits = append(hits, r.messages[i])
		}
	}
	return hits
}

// Contains reports whether window is an ordered suffix-subsequence of the log.
func (r *RecallLog) Contains(window []core.Message) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j := len(r.messages) - 1
	for i := len(window) - 1; i >= 0; i-- {
		for j >= 0 && !sameMessage(r.messages[j], window[i]) {
			j--
		}
		if j < 0 {
			return false
		}
		j--
	}
	return true
}

func sameMessage(a, b core.Message) bool {
	return a.Role == b.Role && a.Content == b.Content && a.Timestamp.Equal(b.Timestamp)
}

package memory

import (
	"sync"

	"github.com/sandevgo/tuskmem/internal/core"
)

// Window is the bounded, ordered view of the conversation the agent sees.
// It is bounded by a token budget and, optionally, a message count. A message
// larger than the whole budget is kept on its own.
type Window struct {
	mu          sync.RWMutex
	counter     core.TokenCounter
	budget      int
	maxMessages int

	messages []core.Message
	tokens   []int
	total    int
}

func NewWindow(budget, maxMessages int, counter core.TokenCounter) *Window {
	if counter == nil {
		counter = HeuristicCounter{}
	}
	return &Window{
		counter:     counter,
		budget:      budget,
		maxMessages: maxMessages,
	}
}

// Push appends msg and returns the messages evicted to make room.
func (w *Window) Push(msg core.Message) []core.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := w.counter.Count(msg.Content)
	w.messages = append(w.messages, msg)
	w.tokens = append(w.tokens, n)
	w.total += n

	return w.evict()
}

func (w *Window) evict() []core.Message {
	var evicted []core.Message
	for len(w.messages) > 1 && w.overCapacity() {
		evicted = append(evicted, w.messages[0])
		w.total -= w.tokens[0]
		w.messages = w.messages[1:]
		w.tokens = w.tokens[1:]
	}
	return evicted
}

func (w *Window) overCapacity() bool {
	if w.maxMessages > 0 && len(w.messages) > w.maxMessages {
		return true
	}
	return w.budget > 0 && w.total > w.budget
}

// Pop removes up to n of the newest messages.
func (w *Window) Pop(n int) []core.Message {
	w.mu.Lock()
	defer w.mu.Unlock()

	if n > len(w.messages) {
		n = len(w.messages)
	}
	if n <= 0 {
		return nil
	}

	cut := len(w.messages) - n
	popped := append([]core.Message(nil), w.messages[cut:]...)
	for _, t := range w.tokens[cut:] {
		w.total -= t
	}
	w.messages = w.messages[:cut]
	w.tokens = w.tokens[:cut]
	return popped
}

// Replace swaps the contents in place, keeping the newest messages that fit.
func (w *Window) Replace(msgs []core.Message) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.messages = w.messages[:0]
	w.tokens = w.tokens[:0]
	w.total = 0
	for _, m := range msgs {
		n := w.counter.Count(m.Content)
		w.messages = append(w.messages, m)
		w.tokens = append(w.tokens, n)
		w.total += n
	}
	w.evict()
}

func (w *Window) Clear() {
	w.Replace(nil)
}

func (w *Window) Messages() []core.Message {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.Message(nil), w.messages...)
}

func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.messages)
}

func (w *Window) Tokens() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.total
}

func (w *Window) Budget() int {
	return w.budget
}

func (w *Window) MaxMessages() int {
	return w.maxMessages
}

// Pressure is the fraction of the token budget in use.
func (w *Window) Pressure() float64 {
	if w.budget <= 0 {
		return 0
	}
	return float64(w.Tokens()) / float64(w.budget)
}

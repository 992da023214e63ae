package memory

import (
	"strings"
	"sync"

	"github.com/sandevgo/tuskmem/internal/core"
)

// linearArchive answers queries by scanning entries in insertion order.
type linearArchive struct {
	mu      sync.RWMutex
	entries []core.ArchivalEntry
}

func newLinearArchive(entries []core.ArchivalEntry) *linearArchive {
	return &linearArchive{entries: append([]core.ArchivalEntry(nil), entries...)}
}

func (a *linearArchive) insert(content string) {
	a.mu.Lock()
	a.entries = append(a.entries, core.ArchivalEntry{Content: content})
	a.mu.Unlock()
}

// query matches case-insensitively on content; an empty text matches everything.
func (a *linearArchive) query(text string, k int) []core.ArchivalResult {
	a.mu.RLock()
	defer a.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(text))
	var results []core.ArchivalResult
	for i, e := range a.entries {
		if len(results) == k {
			break
		}
		if needle == "" || strings.Contains(strings.ToLower(e.Content), needle) {
			results = append(results, core.ArchivalResult{Entry: e, Ordinal: i})
		}
	}
	return results
}

func (a *linearArchive) all() []core.ArchivalEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]core.ArchivalEntry(nil), a.entries...)
}

func (a *linearArchive) len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	mem core.PersistenceManager
}

func (s staticSource) Memory() core.PersistenceManager { return s.mem }

func newTestClient(t *testing.T, mem core.PersistenceManager) *Client {
	t.Helper()
	ctx := context.Background()
	c, err := NewInProcessClient(ctx, NewServer(staticSource{mem: mem}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func plainMemory(t *testing.T) core.PersistenceManager {
	t.Helper()
	mem, err := memory.New(memory.Options{Kind: core.MemoryPlain}, memory.NewWindow(1000, 0, nil))
	require.NoError(t, err)

	ctx := context.Background()
	for _, text := range []string{"my cat is called Tom", "I live in Lisbon", "Tom likes fish"} {
		require.NoError(t, mem.AppendToRecall(ctx, core.Message{Role: core.RoleUser, Content: text}))
	}
	require.NoError(t, mem.InsertArchival(ctx, "Tom is a grey cat"))
	require.NoError(t, mem.InsertArchival(ctx, "Lisbon is sunny"))
	return mem
}

func TestServer_ListTools(t *testing.T) {
	c := newTestClient(t, plainMemory(t))

	names, err := c.ListTools(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"archival_memory_search",
		"archival_memory_insert",
		"conversation_search",
		"memory_stats",
	}, names)
}

func TestServer_ArchivalSearch(t *testing.T) {
	c := newTestClient(t, plainMemory(t))

	out, err := c.Call(context.Background(), "archival_memory_search", map[string]any{"query": "tom"})
	require.NoError(t, err)

	var results []core.ArchivalResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Tom is a grey cat", results[0].Entry.Content)
}

func TestServer_ConversationSearch(t *testing.T) {
	c := newTestClient(t, plainMemory(t))

	out, err := c.Call(context.Background(), "conversation_search", map[string]any{"query": "TOM", "k": 1})
	require.NoError(t, err)

	var msgs []core.Message
	require.NoError(t, json.Unmarshal([]byte(out), &msgs))
	require.Len(t, msgs, 1)
	assert.Equal(t, "Tom likes fish", msgs[0].Content)
}

func TestServer_Stats(t *testing.T) {
	c := newTestClient(t, plainMemory(t))

	out, err := c.Call(context.Background(), "memory_stats", nil)
	require.NoError(t, err)

	var stats core.MemoryStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, core.MemoryPlain, stats.Kind)
	assert.Equal(t, 3, stats.RecallMessages)
	assert.Equal(t, 2, stats.ArchivalEntries)
}

func TestServer_Insert(t *testing.T) {
	mem := plainMemory(t)
	c := newTestClient(t, mem)

	_, err := c.Call(context.Background(), "archival_memory_insert", map[string]any{"content": "new fact"})
	require.NoError(t, err)
	assert.Len(t, mem.Archival(), 3)
}

func TestServer_InsertRejectedByPreloaded(t *testing.T) {
	mem, err := memory.New(memory.Options{Kind: core.MemoryPreloaded, Chunks: []string{"fixed"}}, memory.NewWindow(1000, 0, nil))
	require.NoError(t, err)
	c := newTestClient(t, mem)

	_, err = c.Call(context.Background(), "archival_memory_insert", map[string]any{"content": "new fact"})
	assert.Error(t, err)
	assert.Len(t, mem.Archival(), 1)
}

func TestServer_MissingArgument(t *testing.T) {
	c := newTestClient(t, plainMemory(t))

	_, err := c.Call(context.Background(), "archival_memory_search", map[string]any{})
	assert.Error(t, err)
}

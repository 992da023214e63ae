package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlain_EvictionKeepsRecall(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(10_000, 5, wordCounter{})
	m := NewPlain(w)
	require.NoError(t, m.InsertArchival(ctx, "the user likes green tea"))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.AppendToRecall(ctx, core.Message{
			Role:      core.RoleUser,
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}
	archivalBefore := m.Archival()

	require.NoError(t, m.AppendToRecall(ctx, core.Message{
		Role:      core.RoleUser,
		Content:   "message 5",
		Timestamp: base.Add(5 * time.Second),
	}))

	window := m.WindowMessages()
	require.Len(t, window, 5)
	assert.Equal(t, "message 1", window[0].Content)
	assert.Equal(t, "message 5", window[4].Content)

	recall := m.Recall()
	require.Len(t, recall, 6)
	for i, r := range recall {
		assert.Equal(t, fmt.Sprintf("message %d", i), r.Content)
	}

	assert.Equal(t, archivalBefore, m.Archival())

	res, err := m.QueryArchival(ctx, core.ArchivalQuery{Text: "message 0", K: 10})
	require.NoError(t, err)
	assert.Empty(t, res)

	stats := m.Stats()
	assert.Equal(t, core.MemoryPlain, stats.Kind)
	assert.Equal(t, 5, stats.WindowMessages)
	assert.Equal(t, 6, stats.RecallMessages)
	assert.Equal(t, 1, stats.ArchivalEntries)
}

func TestRecall_IsOrderedUnionOfWindow(t *testing.T) {
	ctx := context.Background()
	w := NewWindow(7, 0, wordCounter{})
	m := NewPlain(w)

	var seen []string
	for i := 0; i < 20; i++ {
		content := fmt.Sprintf("w%d extra words", i)
		seen = append(seen, content)
		require.NoError(t, m.AppendToRecall(ctx, msg(content)))

		assert.Equal(t, seen, contents(m.Recall()))
		assert.True(t, m.recall.Contains(m.WindowMessages()))
	}
}

func TestPlain_QueryArchival(t *testing.T) {
	ctx := context.Background()
	m := NewPlain(NewWindow(100, 0, nil))
	for _, c := range []string{"Alpha notes", "beta notes", "ALPHA again", "gamma"} {
		require.NoError(t, m.InsertArchival(ctx, c))
	}

	res, err := m.QueryArchival(ctx, core.ArchivalQuery{Text: "alpha", K: 5})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 0, res[0].Ordinal)
	assert.Equal(t, 2, res[1].Ordinal)

	res, err = m.QueryArchival(ctx, core.ArchivalQuery{Text: "notes", K: 1})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = m.QueryArchival(ctx, core.ArchivalQuery{Text: "x", K: 0})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestPreloaded_IsReadOnly(t *testing.T) {
	ctx := context.Background()
	m := NewPreloaded(NewWindow(100, 0, nil), []string{"row 1: a", "row 2: b"})

	assert.ErrorIs(t, m.InsertArchival(ctx, "new"), ErrImmutableArchive)
	assert.Len(t, m.Archival(), 2)

	res, err := m.QueryArchival(ctx, core.ArchivalQuery{Text: "row 2", K: 3})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "row 2: b", res[0].Entry.Content)
}

func TestRecall_Search(t *testing.T) {
	r := NewRecallLog([]core.Message{msg("I like cats"), msg("dogs are fine"), msg("Cats again")})

	hits := r.Search("cats", 5)
	assert.Equal(t, []string{"Cats again", "I like cats"}, contents(hits))
	assert.Len(t, r.Search("", 2), 2)
}

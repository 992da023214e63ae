package checkpoint

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/internal/service/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent is the smallest core.Restorable backed by the real memory package.
type fakeAgent struct {
	persona string
	window  *memory.Window
	mem     core.PersistenceManager
	opts    memory.Options
}

func newFakeAgent(t *testing.T) *fakeAgent {
	t.Helper()
	w := memory.NewWindow(1000, 0, nil)
	m, err := memory.New(memory.Options{Kind: core.MemoryPlain}, w)
	require.NoError(t, err)
	return &fakeAgent{persona: "sam", window: w, mem: m, opts: memory.Options{Kind: core.MemoryPlain}}
}

func (a *fakeAgent) AgentState() core.AgentState {
	return core.AgentState{Persona: a.persona, Window: a.window.Messages(), ContextBudget: a.window.Budget()}
}

func (a *fakeAgent) RestoreAgent(s core.AgentState) error {
	a.persona = s.Persona
	a.window.Replace(s.Window)
	return nil
}

func (a *fakeAgent) Memory() core.PersistenceManager { return a.mem }

func (a *fakeAgent) RestoreMemory(s core.MemoryState) error {
	m, err := memory.Restore(s, a.window, nil)
	if err != nil {
		return err
	}
	a.mem = m
	return nil
}

func (a *fakeAgent) ResetMemory(ctx context.Context) error {
	m, err := memory.Seed(a.opts, a.window)
	if err != nil {
		return err
	}
	a.mem = m
	return nil
}

func talk(t *testing.T, a *fakeAgent, lines ...string) {
	t.Helper()
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, l := range lines {
		require.NoError(t, a.mem.AppendToRecall(context.Background(), core.Message{
			Role:      core.RoleUser,
			Content:   l,
			Timestamp: ts.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func fixedStore(dir string, at time.Time) *Store {
	s := NewStore(dir)
	s.now = func() time.Time { return at }
	return s
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := fixedStore(dir, time.Date(2024, 3, 1, 10, 30, 0, 123456000, time.Local))

	src := newFakeAgent(t)
	talk(t, src, "hello", "how are you", "fine thanks")
	require.NoError(t, src.mem.InsertArchival(ctx, "likes tea"))

	res, err := store.Save(ctx, src, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01_10_30_00.123456", res.Name)
	assert.FileExists(t, res.AgentPath)
	assert.FileExists(t, res.MemoryPath)

	dst := newFakeAgent(t)
	dst.persona = "other"
	loaded, err := store.Load(ctx, res.Name, dst)
	require.NoError(t, err)

	assert.False(t, loaded.Degraded)
	assert.Equal(t, "sam", dst.persona)
	assert.Equal(t, src.window.Messages(), dst.window.Messages())
	assert.Equal(t, src.mem.Recall(), dst.mem.Recall())
	assert.Equal(t, src.mem.Archival(), dst.mem.Archival())
}

func TestStore_LoadLatestByModTime(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := newFakeAgent(t)
	first.persona = "first"
	r1, err := fixedStore(dir, time.Date(2030, 1, 1, 0, 0, 0, 0, time.Local)).Save(ctx, first, TriggerManual)
	require.NoError(t, err)

	second := newFakeAgent(t)
	second.persona = "second"
	r2, err := fixedStore(dir, time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)).Save(ctx, second, TriggerManual)
	require.NoError(t, err)

	// The second checkpoint sorts first by name but was written last.
	t1 := time.Now().Add(-time.Hour)
	t2 := time.Now()
	require.NoError(t, os.Chtimes(r1.AgentPath, t1, t1))
	require.NoError(t, os.Chtimes(r2.AgentPath, t2, t2))

	dst := newFakeAgent(t)
	loaded, err := NewStore(dir).Load(ctx, "", dst)
	require.NoError(t, err)
	assert.Equal(t, r2.Name, loaded.Name)
	assert.Equal(t, "second", dst.persona)

	infos, err := NewStore(dir).List()
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, r2.Name, infos[0].Name)
	assert.True(t, infos[0].HasMemory)
}

func TestStore_LoadEmptyDir(t *testing.T) {
	_, err := NewStore(t.TempDir()).Load(context.Background(), "", newFakeAgent(t))
	assert.ErrorIs(t, err, ErrNoCheckpoint)

	_, err = NewStore(t.TempDir()).Load(context.Background(), "missing", newFakeAgent(t))
	assert.ErrorIs(t, err, ErrNoCheckpoint)
}

func TestStore_LoadWithoutMemoryHalfIsDegraded(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := fixedStore(dir, time.Date(2024, 3, 1, 11, 0, 0, 0, time.Local))

	src := newFakeAgent(t)
	talk(t, src, "remember me")
	require.NoError(t, src.mem.InsertArchival(ctx, "archived fact"))
	res, err := store.Save(ctx, src, TriggerManual)
	require.NoError(t, err)
	require.NoError(t, os.Remove(res.MemoryPath))

	dst := newFakeAgent(t)
	talk(t, dst, "unrelated history")
	loaded, err := store.Load(ctx, res.Name+".json", dst)
	require.NoError(t, err)

	assert.True(t, loaded.Degraded)
	assert.ErrorIs(t, loaded.MemoryErr, ErrNoCheckpoint)
	assert.Equal(t, src.window.Messages(), dst.window.Messages())
	assert.Equal(t, src.window.Messages(), dst.mem.Recall())
	assert.Empty(t, dst.mem.Archival())
}

func TestStore_LoadRejectsUnpairedMemory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a := newFakeAgent(t)
	talk(t, a, "alpha")
	ra, err := fixedStore(dir, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)).Save(ctx, a, TriggerManual)
	require.NoError(t, err)

	b := newFakeAgent(t)
	talk(t, b, "alpha")
	rb, err := fixedStore(dir, time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)).Save(ctx, b, TriggerManual)
	require.NoError(t, err)

	data, err := os.ReadFile(rb.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ra.MemoryPath, data, 0644))

	loaded, err := NewStore(dir).Load(ctx, ra.Name, newFakeAgent(t))
	require.NoError(t, err)
	assert.True(t, loaded.Degraded)
	assert.ErrorIs(t, loaded.MemoryErr, ErrUnpaired)
}

func TestStore_LoadRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "future.json")
	data, err := json.Marshal(map[string]any{"version": 99, "kind": "agent"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	dst := newFakeAgent(t)
	dst.persona = "untouched"
	_, err = NewStore(dir).Load(context.Background(), "future", dst)
	assert.ErrorIs(t, err, ErrIncompatibleSchema)
	assert.Equal(t, "untouched", dst.persona)
}

func TestStore_SaveReportsEachHalf(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	at := time.Date(2024, 5, 5, 5, 5, 5, 0, time.Local)
	store := fixedStore(dir, at)

	// A directory in place of the memory artifact makes only that write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, at.Format(nameLayout)+memoryExt, "blocker"), 0755))

	res, err := store.Save(ctx, newFakeAgent(t), TriggerShutdown)
	require.Error(t, err)
	assert.NoError(t, res.AgentErr)
	assert.Error(t, res.MemoryErr)
	assert.FileExists(t, res.AgentPath)
}

func TestWriteTranscript(t *testing.T) {
	dir := t.TempDir()
	msgs := []core.Message{{Role: core.RoleUser, Content: "hi"}}

	path, err := WriteTranscript(dir, msgs, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []core.Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "hi", got[0].Content)
}

type recorder struct {
	agent, memory string
	calls         int
}

func (r *recorder) RecordCheckpoint(agentPath, memoryPath string) error {
	r.calls++
	r.agent, r.memory = agentPath, memoryPath
	return nil
}

func TestStore_SaveAndRecord(t *testing.T) {
	ctx := context.Background()
	store := fixedStore(t.TempDir(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local))
	rec := &recorder{}

	res, err := store.SaveAndRecord(ctx, newFakeAgent(t), TriggerManual, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, res.AgentPath, rec.agent)
	assert.Equal(t, res.MemoryPath, rec.memory)

	summary := res.Summary()
	require.Len(t, summary, 2)
	assert.Contains(t, summary[0], "Saved agent")
	assert.Contains(t, summary[1], "Saved memory")
}

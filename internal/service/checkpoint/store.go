package checkpoint

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/tuskmem/internal/core"
	"github.com/sandevgo/tuskmem/pkg/log"
)

// Store keeps checkpoints as file pairs in a single directory.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes both halves of a checkpoint. Both writes are attempted even if
// the first one fails; the returned error joins whatever went wrong.
func (s *Store) Save(ctx context.Context, target core.Restorable, trigger Trigger) (*SaveResult, error) {
	logger := log.FromCtx(ctx)

	now := s.now()
	name := now.Format(nameLayout)
	hdr := header{
		Version:   SchemaVersion,
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		Trigger:   trigger,
	}

	res := &SaveResult{
		Name:       name,
		AgentPath:  filepath.Join(s.dir, name+agentExt),
		MemoryPath: filepath.Join(s.dir, name+memoryExt),
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		err = fmt.Errorf("create checkpoint directory: %w", err)
		res.AgentErr, res.MemoryErr = err, err
		return res, err
	}

	agentHdr := hdr
	agentHdr.Kind = kindAgent
	res.AgentErr = writeJSON(res.AgentPath, agentArtifact{header: agentHdr, Agent: target.AgentState()}, false)

	memHdr := hdr
	memHdr.Kind = kindMemory
	res.MemoryErr = writeJSON(res.MemoryPath, memoryArtifact{header: memHdr, Memory: target.Memory().Snapshot()}, true)

	logger.Info().
		Str("name", name).
		Str("trigger", string(trigger)).
		AnErr("agent_err", res.AgentErr).
		AnErr("memory_err", res.MemoryErr).
		Msg("checkpoint saved")

	var errs []error
	if res.AgentErr != nil {
		errs = append(errs, fmt.Errorf("save agent: %w", res.AgentErr))
	}
	if res.MemoryErr != nil {
		errs = append(errs, fmt.Errorf("save memory: %w", res.MemoryErr))
	}
	return res, errors.Join(errs...)
}

// SaveAndRecord saves and hands the paths of the halves that were written to rec.
func (s *Store) SaveAndRecord(ctx context.Context, target core.Restorable, trigger Trigger, rec core.CheckpointRecorder) (*SaveResult, error) {
	res, err := s.Save(ctx, target, trigger)
	if rec == nil {
		return res, err
	}

	var agentPath, memoryPath string
	if res.AgentErr == nil {
		agentPath = res.AgentPath
	}
	if res.MemoryErr == nil {
		memoryPath = res.MemoryPath
	}
	if agentPath != "" || memoryPath != "" {
		if rerr := rec.RecordCheckpoint(agentPath, memoryPath); rerr != nil {
			log.FromCtx(ctx).Warn().Err(rerr).Msg("failed to record checkpoint in runtime state")
		}
	}
	return res, err
}

// Summary lists one operator-facing line per half.
func (r *SaveResult) Summary() []string {
	line := func(what, path string, err error) string {
		if err != nil {
			return fmt.Sprintf("Saving %s to %s failed: %v", what, path, err)
		}
		return fmt.Sprintf("Saved %s to %s", what, path)
	}
	return []string{
		line("agent", r.AgentPath, r.AgentErr),
		line("memory", r.MemoryPath, r.MemoryErr),
	}
}

// Load restores the named checkpoint into target; an empty name selects the
// most recently modified one. The agent half is restored first and is kept
// even when the memory half fails.
func (s *Store) Load(ctx context.Context, name string, target core.Restorable) (*LoadResult, error) {
	logger := log.FromCtx(ctx)

	agentPath, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	var agent agentArtifact
	if err := readJSON(agentPath, &agent, false); err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if err := checkHeader(agent.header, kindAgent); err != nil {
		return nil, fmt.Errorf("load agent: %w", err)
	}
	if err := target.RestoreAgent(agent.Agent); err != nil {
		return nil, fmt.Errorf("restore agent: %w", err)
	}

	res := &LoadResult{
		Name:       strings.TrimSuffix(filepath.Base(agentPath), agentExt),
		AgentPath:  agentPath,
		MemoryPath: strings.TrimSuffix(agentPath, agentExt) + memoryExt,
	}

	if err := s.loadMemory(res.MemoryPath, agent.ID, target); err != nil {
		res.Degraded = true
		res.MemoryErr = err
		logger.Warn().Err(err).Str("name", res.Name).Msg("memory half not restored")
		if rerr := target.ResetMemory(ctx); rerr != nil {
			return res, fmt.Errorf("reset memory: %w", rerr)
		}
		return res, nil
	}

	logger.Info().Str("name", res.Name).Msg("checkpoint loaded")
	return res, nil
}

func (s *Store) loadMemory(path string, id uuid.UUID, target core.Restorable) error {
	var mem memoryArtifact
	if err := readJSON(path, &mem, true); err != nil {
		return err
	}
	if err := checkHeader(mem.header, kindMemory); err != nil {
		return err
	}
	if mem.ID != id {
		return fmt.Errorf("%w: agent %s, memory %s", ErrUnpaired, id, mem.ID)
	}
	return target.RestoreMemory(mem.Memory)
}

func (s *Store) resolve(name string) (string, error) {
	if name == "" {
		return s.Latest()
	}
	if !strings.HasSuffix(name, agentExt) {
		name += agentExt
	}
	if !strings.ContainsRune(name, filepath.Separator) {
		name = filepath.Join(s.dir, name)
	}
	if _, err := os.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoCheckpoint, name)
		}
		return "", fmt.Errorf("stat checkpoint: %w", err)
	}
	return name, nil
}

// Latest returns the agent artifact with the newest modification time.
func (s *Store) Latest() (string, error) {
	infos, err := s.List()
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoCheckpoint, s.dir)
	}
	return infos[0].Path, nil
}

// List returns saved checkpoints, newest first.
func (s *Store) List() ([]Info, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+agentExt))
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}

	infos := make([]Info, 0, len(paths))
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			continue
		}
		_, memErr := os.Stat(strings.TrimSuffix(p, agentExt) + memoryExt)
		infos = append(infos, Info{
			Name:      strings.TrimSuffix(filepath.Base(p), agentExt),
			Path:      p,
			ModTime:   st.ModTime(),
			HasMemory: memErr == nil,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].ModTime.Equal(infos[j].ModTime) {
			return infos[i].Name > infos[j].Name
		}
		return infos[i].ModTime.After(infos[j].ModTime)
	})
	return infos, nil
}

func checkHeader(h header, kind string) error {
	if h.Version != SchemaVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrIncompatibleSchema, h.Version, SchemaVersion)
	}
	if h.Kind != kind {
		return fmt.Errorf("%w: kind %q, want %q", ErrIncompatibleSchema, h.Kind, kind)
	}
	return nil
}

// writeJSON writes through a temp file and rename so readers never observe
// a partial artifact.
func writeJSON(path string, v any, compress bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if compress {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("close gzip: %w", err)
		}
		data = buf.Bytes()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func readJSON(path string, v any, compressed bool) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNoCheckpoint, path)
		}
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("gzip reader: %w", err)
		}
		defer gr.Close()
		r = gr
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteTranscript stores the given messages as a standalone JSON document.
func WriteTranscript(dir string, msgs []core.Message, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create transcript directory: %w", err)
	}
	path := filepath.Join(dir, now.Format(nameLayout)+".json")
	if err := writeJSON(path, msgs, false); err != nil {
		return "", err
	}
	return path, nil
}

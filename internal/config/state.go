package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	envpkg "github.com/sandevgo/tuskmem/pkg/env"
)

// RuntimeState survives restarts next to the checkpoints.
type RuntimeState struct {
	AgentSaveFile  string `env:"TUSK_AGENT_SAVE_FILE"`
	MemorySaveFile string `env:"TUSK_MEMORY_SAVE_FILE"`
}

type StateFile struct {
	path  string
	mu    sync.Mutex
	state RuntimeState
}

// OpenStateFile reads the state file at path; a missing file yields an empty state.
func OpenStateFile(path string) (*StateFile, error) {
	f := &StateFile{path: path}

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := env.ParseWithOptions(&f.state, env.Options{Environment: values}); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return f, nil
}

func (f *StateFile) State() RuntimeState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// RecordCheckpoint keeps the previous value of a half whose path is empty.
func (f *StateFile) RecordCheckpoint(agentPath, memoryPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if agentPath != "" {
		f.state.AgentSaveFile = agentPath
	}
	if memoryPath != "" {
		f.state.MemorySaveFile = memoryPath
	}
	return f.write()
}

func (f *StateFile) write() error {
	content, err := envpkg.MarshalEnv(&f.state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

package llm

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sandevgo/tuskmem/internal/config"
	"github.com/sandevgo/tuskmem/internal/core"
)

// DynamicProvider lets the model change between steps without rebuilding
// anything that holds a reference to the provider.
type DynamicProvider struct {
	config  *config.BackendConfig
	current atomic.Value
	mu      sync.RWMutex
}

func NewDynamicProvider(
	ctx context.Context,
	config *config.BackendConfig,
) (*DynamicProvider, error) {
	d := &DynamicProvider{
		config: config,
	}

	provider, err := NewProvider(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create initial provider: %w", err)
	}

	d.current.Store(provider)
	return d, nil
}

func (d *DynamicProvider) Chat(ctx context.Context, history []core.Message) (core.Message, error) {
	provider := d.current.Load().(Provider)
	return provider.Chat(ctx, history)
}

func (d *DynamicProvider) Models(ctx context.Context) ([]core.Model, error) {
	provider := d.current.Load().(Provider)
	return provider.Models(ctx)
}

// GetModel (thread-safe)
func (d *DynamicProvider) GetModel() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.config.GetModel()
}

func (d *DynamicProvider) SetModel(ctx context.Context, model string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	previous := d.config.GetModel()
	if err := d.config.SetModel(model); err != nil {
		return err
	}

	newProvider, err := NewProvider(ctx, d.config)
	if err != nil {
		_ = d.config.SetModel(previous)
		return fmt.Errorf("failed to create provider: %w", err)
	}

	// Atomic swap
	d.current.Store(newProvider)
	return nil
}

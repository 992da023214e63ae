package srv

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, s)
}

type fakeService struct {
	name    string
	rec     *recorder
	started chan struct{}
	failing error
}

func (f *fakeService) Start(ctx context.Context) error {
	close(f.started)
	<-ctx.Done()
	return nil
}

func (f *fakeService) Shutdown(ctx context.Context) error {
	f.rec.add(f.name)
	return f.failing
}

func TestServices_StartAndShutdownInReverse(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	a := &fakeService{name: "a", rec: rec, started: make(chan struct{})}
	b := &fakeService{name: "b", rec: rec, started: make(chan struct{}), failing: boom}

	ctx, cancel := context.WithCancel(context.Background())
	StartServices(ctx, []Service{a, b})
	<-a.started
	<-b.started

	cancel()
	err := ShutdownServices(ctx, []Service{a, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"b", "a"}, rec.order)
}

func TestShutdownServices_Empty(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, ShutdownServices(ctx, nil))
}

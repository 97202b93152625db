package srv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	name    string
	mu      *sync.Mutex
	order   *[]string
	started chan struct{}
}

func (r *recordingService) Start(ctx context.Context) error {
	close(r.started)
	return nil
}

func (r *recordingService) Shutdown(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.order = append(*r.order, r.name)
	return nil
}

func TestServices_StartAndReverseShutdown(t *testing.T) {
	var mu sync.Mutex
	var order []string

	newSvc := func(name string) *recordingService {
		return &recordingService{name: name, mu: &mu, order: &order, started: make(chan struct{})}
	}
	a, b := newSvc("storage"), newSvc("http")

	ctx, cancel := context.WithCancel(context.Background())
	StartServices(ctx, []Service{a, b})

	for _, s := range []*recordingService{a, b} {
		select {
		case <-s.started:
		case <-time.After(time.Second):
			t.Fatalf("service %s was not started", s.name)
		}
	}

	cancel()
	ShutdownServices(ctx, []Service{a, b})

	assert.Equal(t, []string{"http", "storage"}, order)
}

func TestCleanup(t *testing.T) {
	called := false
	svc := NewCleanup(func() error {
		called = true
		return errors.New("close failed")
	})

	require.NoError(t, svc.Start(context.Background()))
	err := svc.Shutdown(context.Background())
	assert.True(t, called)
	assert.EqualError(t, err, "close failed")

	assert.NoError(t, NewCleanup(nil).Shutdown(context.Background()))
}

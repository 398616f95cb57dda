package files

import (
	"context"
	"io"
	"sync"
	"time"

	"blob-gateway/core/storage"
	"blob-gateway/core/storage/memstore"

	"go.uber.org/zap"
)

var testNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func setupTestService(opts ...Option) (*Service, *memstore.Container, *memstore.Container) {
	public := memstore.NewContainer("public", "")
	protected := memstore.NewContainer("protected", "")
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewService(public, protected, zap.NewNop(), opts...), public, protected
}

// gatedContainer holds Upload until the gate is opened.
type gatedContainer struct {
	*memstore.Container
	gate chan struct{}
}

func (g *gatedContainer) Upload(ctx context.Context, key string, r io.Reader) error {
	<-g.gate
	return g.Container.Upload(ctx, key, r)
}

// brokenContainer fails every backend call.
type brokenContainer struct {
	*memstore.Container
	err error
}

func (b *brokenContainer) Upload(context.Context, string, io.Reader) error { return b.err }

func (b *brokenContainer) DeleteIfExists(context.Context, string) (bool, error) {
	return false, b.err
}

// fakeVerifier records Exists/Create calls.
type fakeVerifier struct {
	*memstore.Container
	mu        sync.Mutex
	exists    bool
	existsErr error
	created   bool
}

func (f *fakeVerifier) Exists(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists, f.existsErr
}

func (f *fakeVerifier) Create(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created, f.exists = true, true
	return nil
}

var (
	_ storage.Container = (*gatedContainer)(nil)
	_ storage.Verifier  = (*fakeVerifier)(nil)
)

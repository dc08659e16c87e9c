package corpus

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Cache serves corpus snapshots, rebuilding from the store when the cached
// snapshot is older than the TTL or has been invalidated. A TTL of zero
// disables caching entirely: every call rebuilds, so results always reflect
// current store state at the price of a full scan per query.
//
// Snapshots are swapped atomically; readers either see the old complete
// snapshot or the new complete one, never a partial rebuild.
type Cache struct {
	builder *Builder
	ttl     time.Duration
	logger  *zap.Logger

	mu      sync.Mutex // serializes rebuilds
	current atomic.Pointer[Snapshot]
}

// NewCache creates a snapshot cache over builder.
func NewCache(builder *Builder, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{builder: builder, ttl: ttl, logger: logger}
}

// Snapshot returns a current snapshot, rebuilding if needed. Concurrent
// callers during a rebuild wait for the single in-flight build rather than
// each triggering their own.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if c.ttl <= 0 {
		return c.builder.Build(ctx)
	}
	if snap := c.current.Load(); c.fresh(snap) {
		return snap, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap := c.current.Load(); c.fresh(snap) {
		return snap, nil
	}
	snap, err := c.builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	c.current.Store(snap)
	return snap, nil
}

func (c *Cache) fresh(snap *Snapshot) bool {
	return snap != nil && time.Since(snap.BuiltAt) < c.ttl
}

// Invalidate drops the cached snapshot so the next call rebuilds.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
	c.logger.Debug("corpus snapshot invalidated")
}

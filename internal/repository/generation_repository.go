package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// GenerationSource hands out increasing generation numbers per viewer. A reload
// tagged with an older generation than the viewer's latest is stale.
type GenerationSource interface {
	Next(ctx context.Context, viewerID string) (uint64, error)
	// Forget drops the viewer's counter once its held list is gone.
	Forget(viewerID string)
}

type memoryGenerations struct {
	mu   sync.Mutex
	last map[string]uint64
}

// NewMemoryGenerations returns an in-process generation source.
func NewMemoryGenerations() GenerationSource {
	return &memoryGenerations{last: make(map[string]uint64)}
}

func (g *memoryGenerations) Next(_ context.Context, viewerID string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last[viewerID]++
	return g.last[viewerID], nil
}

func (g *memoryGenerations) Forget(viewerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.last, viewerID)
}

type redisGenerations struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisGenerations returns a generation source shared by every instance using
// the same Redis database. Counters expire after ttl of inactivity.
func NewRedisGenerations(client *redis.Client, prefix string, ttl time.Duration) GenerationSource {
	return &redisGenerations{client: client, prefix: prefix, ttl: ttl}
}

func (g *redisGenerations) Next(ctx context.Context, viewerID string) (uint64, error) {
	key := g.prefix + "viewgen:" + viewerID

	var incr *redis.IntCmd
	_, err := g.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		if g.ttl > 0 {
			pipe.Expire(ctx, key, g.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return uint64(incr.Val()), nil
}

// Forget leaves the key alone: other instances may still hold the viewer's list,
// and the TTL reclaims it.
func (g *redisGenerations) Forget(string) {}

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/follow-service/internal/core/ports"
)

// FollowRedisCache décore le edge store : cache-aside sur Exists (le check le
// plus chaud, appelé sur chaque profil affiché). Les scans paginés passent
// tout droit, leur réutilisation est trop faible pour justifier la RAM.
//
// Cohérence : TTL court + invalidation par paire via les events
// follow.created / follow.removed (adapter primaire events).
type FollowRedisCache struct {
	next   ports.FollowRepository
	client *redis.Client
	ttl    time.Duration
}

func NewFollowRedisCache(next ports.FollowRepository, client *redis.Client) *FollowRedisCache {
	return &FollowRedisCache{
		next:   next,
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *FollowRedisCache) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	key := existsKey(followerID, followingID)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return val == "1", nil
	case err != redis.Nil:
		// Redis en panne != store en panne : on dégrade vers le store.
		slog.Error("redis read failed, falling back to edge store", "key", key, "error", err)
	}

	exists, err := c.next.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}

	val = "0"
	if exists {
		val = "1"
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		slog.Error("redis write failed", "key", key, "error", err)
	}
	return exists, nil
}

func (c *FollowRedisCache) Scan(ctx context.Context, filter ports.EdgeFilter, page domain.PageRequest) ([]domain.FollowEdge, int64, error) {
	return c.next.Scan(ctx, filter, page)
}

// InvalidatePair implémente ports.FollowCache pour l'adapter events.
func (c *FollowRedisCache) InvalidatePair(ctx context.Context, followerID, followingID string) error {
	return c.client.Del(ctx, existsKey(followerID, followingID)).Err()
}

func existsKey(followerID, followingID string) string {
	return fmt.Sprintf("follow:exists:%s:%s", followerID, followingID)
}

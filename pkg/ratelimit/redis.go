package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown locks an action per subject for a fixed duration using Redis
// SET NX. A nil client disables it: every acquire succeeds.
type Cooldown struct {
	rdb *redis.Client
}

func NewCooldown(rdb *redis.Client) *Cooldown {
	return &Cooldown{rdb: rdb}
}

func key(subject, action string) string {
	return fmt.Sprintf("rate_limit:person:%s:%s", subject, action)
}

// Acquire reports whether the action is allowed now, and if so holds the
// lock for limit.
func (c *Cooldown) Acquire(ctx context.Context, subject, action string, limit time.Duration) (bool, error) {
	if c == nil || c.rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := c.rdb.SetNX(ctx, key(subject, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

// Release drops the lock, used when the guarded action failed.
func (c *Cooldown) Release(ctx context.Context, subject, action string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	_, err := c.rdb.Del(ctx, key(subject, action)).Result()
	return err
}

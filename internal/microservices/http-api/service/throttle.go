package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeThrottle limits how often a confirmation code can be mailed to a user.
type CodeThrottle interface {
	// Allow reports whether a code may be sent for key now, and starts the
	// cooldown when it may.
	Allow(ctx context.Context, key string) (bool, error)
}

type redisCodeThrottle struct {
	rdb      *redis.Client
	cooldown time.Duration
}

// NewCodeThrottle returns a Redis backed throttle. A nil client or a zero
// cooldown disables throttling.
func NewCodeThrottle(rdb *redis.Client, cooldown time.Duration) CodeThrottle {
	return &redisCodeThrottle{rdb: rdb, cooldown: cooldown}
}

func (t *redisCodeThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t == nil || t.rdb == nil || t.cooldown <= 0 {
		return true, nil
	}

	wasSet, err := t.rdb.SetNX(ctx, "rate_limit:confirmation_code:"+key, "locked", t.cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check code cooldown in redis: %w", err)
	}
	return wasSet, nil
}

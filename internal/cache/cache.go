// Package cache provides a best-effort Redis-backed warm-start cache for
// incumbent schedules and compiled eligibility matrices, keyed by instance
// hash, grounded on this codebase's Redis wiring for out-of-process state.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mslscheduler/internal/pkg/logger"
)

// Config configures the Redis connection.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewClient returns a connected Redis client, pinging within 5s to fail
// fast on misconfiguration.
func NewClient(cfg Config) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

const (
	schedulePrefix    = "mslscheduler:schedule:"
	eligibilityPrefix = "mslscheduler:eligibility:"
	defaultTTL        = 24 * time.Hour
)

// WarmStartCache wraps a Redis client with fail-open semantics: a cache
// miss or backend error on read is reported as "not found" rather than
// propagated, since the cache only ever holds an optimization, never the
// source of truth.
type WarmStartCache struct {
	rdb *redis.Client
	log *logger.Logger
	ttl time.Duration
}

// New wraps a Redis client. log may be nil, in which case cache errors are
// silently swallowed.
func New(rdb *redis.Client, log *logger.Logger) *WarmStartCache {
	return &WarmStartCache{rdb: rdb, log: log, ttl: defaultTTL}
}

// GetSchedule fetches a previously stored incumbent schedule for an
// instance hash. ok is false on any miss or backend error.
func (c *WarmStartCache) GetSchedule(ctx context.Context, instanceHash string, dst interface{}) (ok bool) {
	raw, err := c.rdb.Get(ctx, schedulePrefix+instanceHash).Result()
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Sugar().Warnw("warm-start cache read failed", "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		if c.log != nil {
			c.log.Sugar().Warnw("warm-start cache decode failed", "error", err)
		}
		return false
	}
	return true
}

// PutSchedule stores an incumbent schedule for an instance hash. Failures
// are logged, never returned, since the cache is best-effort.
func (c *WarmStartCache) PutSchedule(ctx context.Context, instanceHash string, schedule interface{}) {
	body, err := json.Marshal(schedule)
	if err != nil {
		if c.log != nil {
			c.log.Sugar().Warnw("warm-start cache encode failed", "error", err)
		}
		return
	}
	if err := c.rdb.Set(ctx, schedulePrefix+instanceHash, body, c.ttl).Err(); err != nil {
		if c.log != nil {
			c.log.Sugar().Warnw("warm-start cache write failed", "error", err)
		}
	}
}

// GetEligibility fetches a memoized compiled eligibility matrix (encoded by
// the caller, typically as JSON of model.CompiledFixed/Eligibility slices)
// for an instance hash.
func (c *WarmStartCache) GetEligibility(ctx context.Context, instanceHash string, dst interface{}) (ok bool) {
	raw, err := c.rdb.Get(ctx, eligibilityPrefix+instanceHash).Result()
	if err != nil {
		if err != redis.Nil && c.log != nil {
			c.log.Sugar().Warnw("eligibility cache read failed", "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		if c.log != nil {
			c.log.Sugar().Warnw("eligibility cache decode failed", "error", err)
		}
		return false
	}
	return true
}

// PutEligibility memoizes a compiled eligibility matrix for an instance
// hash.
func (c *WarmStartCache) PutEligibility(ctx context.Context, instanceHash string, matrix interface{}) {
	body, err := json.Marshal(matrix)
	if err != nil {
		if c.log != nil {
			c.log.Sugar().Warnw("eligibility cache encode failed", "error", err)
		}
		return
	}
	if err := c.rdb.Set(ctx, eligibilityPrefix+instanceHash, body, c.ttl).Err(); err != nil {
		if c.log != nil {
			c.log.Sugar().Warnw("eligibility cache write failed", "error", err)
		}
	}
}

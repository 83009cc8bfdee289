package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// unreachableClient points at a port nothing listens on, so every command
// fails fast with a connection error — used to exercise fail-open behavior
// without requiring a live Redis instance.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func TestWarmStartCacheGetScheduleFailsOpenOnBackendError(t *testing.T) {
	c := New(unreachableClient(), nil)
	var dst map[string]string
	ok := c.GetSchedule(context.Background(), "hash-1", &dst)
	assert.False(t, ok)
}

func TestWarmStartCachePutScheduleDoesNotPanicOnBackendError(t *testing.T) {
	c := New(unreachableClient(), nil)
	assert.NotPanics(t, func() {
		c.PutSchedule(context.Background(), "hash-1", map[string]string{"a": "b"})
	})
}

func TestWarmStartCacheGetEligibilityFailsOpenOnBackendError(t *testing.T) {
	c := New(unreachableClient(), nil)
	var dst []int
	ok := c.GetEligibility(context.Background(), "hash-1", &dst)
	assert.False(t, ok)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCache_UnreachableServerReportsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewRedisCache(client, "test:")
	ctx := context.Background()

	var dest map[string]int
	hit, err := c.Get(ctx, "stats", &dest)
	assert.False(t, hit)
	assert.Error(t, err)

	assert.Error(t, c.Set(ctx, "stats", map[string]int{"a": 1}, time.Minute))
}

func TestRedisCache_UnmarshalableValue(t *testing.T) {
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "")

	err := c.Set(context.Background(), "bad", make(chan int), time.Minute)
	assert.ErrorContains(t, err, "failed to marshal")
}

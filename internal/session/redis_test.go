package session

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisStoreKey(t *testing.T) {
	s := NewRedisStore(nil, 0)
	assert.Equal(t, "feedback:awaiting:42", s.key(42))
	assert.Equal(t, "feedback:awaiting:-100500", s.key(-100500))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	s := NewRedisStore(client, 0)
	s.prefix = "test:" + t.Name() + ":"
	storeContract(t, s)
}

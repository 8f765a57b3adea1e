package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "feedback:awaiting:"

// RedisStore keeps sessions in Redis so they survive restarts and can be
// shared between bot replicas. One key per awaiting user.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store. A zero ttl keeps sessions
// until they are explicitly ended.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

func (s *RedisStore) key(userID int64) string {
	return s.prefix + strconv.FormatInt(userID, 10)
}

// StartFeedback implements Store.
func (s *RedisStore) StartFeedback(ctx context.Context, userID int64) error {
	if err := s.client.Set(ctx, s.key(userID), "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session for user %d: %w", userID, err)
	}
	return nil
}

// IsAwaitingFeedback implements Store.
func (s *RedisStore) IsAwaitingFeedback(ctx context.Context, userID int64) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check session for user %d: %w", userID, err)
	}
	return n > 0, nil
}

// EndFeedback implements Store.
func (s *RedisStore) EndFeedback(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete session for user %d: %w", userID, err)
	}
	return nil
}

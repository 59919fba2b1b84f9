package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to redis using a redis:// URL and verifies the
// connection with a ping before returning.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url parse error: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}

	return client, nil
}

// RedisStore keeps the current token per subject under "auth:<id>" with a
// TTL matching the access-token validity, so abandoned sessions age out of
// the registry on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("auth:%d", userID)
}

func (s *RedisStore) Set(ctx context.Context, userID int64, token string) error {
	if err := s.client.Set(ctx, sessionKey(userID), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session registry write error: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("session registry read error: %w", err)
	}
	return val, nil
}

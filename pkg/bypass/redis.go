package bypass

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces bypass state keys in Redis.
const keyPrefix = "txhound:bypass:"

// RedisStore persists bypass state in Redis so separate runs against the
// same host share the challenge outcome.
type RedisStore struct {
	redis *redis.Client
	key   string
}

// NewRedisStore creates a store for the given explorer host.
func NewRedisStore(redisClient *redis.Client, host string) *RedisStore {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &RedisStore{
		redis: redisClient,
		key:   keyPrefix + host,
	}
}

// State returns the recorded state, or ErrStateNotFound when the key is absent.
func (s *RedisStore) State(ctx context.Context) (State, error) {
	data, err := s.redis.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return State{}, ErrStateNotFound
		}
		return State{}, fmt.Errorf("redis get: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("unmarshal bypass state: %w", err)
	}

	return state, nil
}

// MarkPassed records a cleared challenge with the current timestamp.
func (s *RedisStore) MarkPassed(ctx context.Context) error {
	state := State{
		Passed:   true,
		PassedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal bypass state: %w", err)
	}

	if err := s.redis.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Clear removes the recorded state.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	Invalidations.Inc()
	return nil
}

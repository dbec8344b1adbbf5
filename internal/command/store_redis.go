package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "veritas/pkg/domain"
	"veritas/pkg/platform/sentinel"
)

const commandKeyPrefix = "cmd:"

// RedisStore is the shared command ledger for multi-instance deployments.
// SET NX gives first-writer-wins semantics; EX bounds retention.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an externally managed redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(tenantID id.TenantID, commandID string) string {
	// Tenant id is part of the key, so identical command ids from different
	// tenants never collide.
	return fmt.Sprintf("%s%s:%s", commandKeyPrefix, tenantID.String(), commandID)
}

func (s *RedisStore) Get(ctx context.Context, tenantID id.TenantID, commandID string) (*Result, error) {
	raw, err := s.client.Get(ctx, redisKey(tenantID, commandID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("command %s: %w", commandID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get command result: %w", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode command result: %w", err)
	}
	return &result, nil
}

func (s *RedisStore) Put(ctx context.Context, result *Result, ttl time.Duration) (bool, *Result, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return false, nil, fmt.Errorf("encode command result: %w", err)
	}

	key := redisKey(result.TenantID, result.CommandID)
	stored, err := s.client.SetNX(ctx, key, raw, ttl).Result()
	if err != nil {
		return false, nil, fmt.Errorf("store command result: %w", err)
	}
	if stored {
		return true, nil, nil
	}

	// Lost the race; hand back the winner's result.
	winner, err := s.Get(ctx, result.TenantID, result.CommandID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Winner expired between SetNX and Get. Treat our result as
			// authoritative rather than failing the caller.
			return true, nil, nil
		}
		return false, nil, err
	}
	return false, winner, nil
}

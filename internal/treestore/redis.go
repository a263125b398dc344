package treestore

import (
	"context"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis backend. Each (branch, tenant)
// node is a hash keyed by record id; counter branches use plain string
// keys so INCR serializes concurrent allocations server-side.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if strings.TrimSpace(prefix) == "" {
		prefix = "polisdesk"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) nodeKey(branch, tenant string) string {
	return s.prefix + ":" + branch + ":" + tenant
}

func (s *RedisStore) Get(ctx context.Context, branch, tenant, key string) ([]byte, error) {
	value, err := s.client.HGet(ctx, s.nodeKey(branch, tenant), key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, branch, tenant, key string, value []byte) error {
	if err := s.client.HSet(ctx, s.nodeKey(branch, tenant), key, value).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, branch, tenant, key string) error {
	removed, err := s.client.HDel(ctx, s.nodeKey(branch, tenant), key).Result()
	if err != nil {
		return unavailable(err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Children(ctx context.Context, branch, tenant string) (map[string][]byte, error) {
	values, err := s.client.HGetAll(ctx, s.nodeKey(branch, tenant)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	children := make(map[string][]byte, len(values))
	for key, value := range values {
		children[key] = []byte(value)
	}
	return children, nil
}

func (s *RedisStore) Count(ctx context.Context, branch, tenant string) (int64, error) {
	count, err := s.client.HLen(ctx, s.nodeKey(branch, tenant)).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	return count, nil
}

func (s *RedisStore) Incr(ctx context.Context, branch, tenant string) (int64, error) {
	next, err := s.client.Incr(ctx, s.nodeKey(branch, tenant)).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	return next, nil
}

func (s *RedisStore) Current(ctx context.Context, branch, tenant string) (int64, error) {
	current, err := s.client.Get(ctx, s.nodeKey(branch, tenant)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable(err)
	}
	return current, nil
}

func (s *RedisStore) Tenants(ctx context.Context, branch string) ([]string, error) {
	pattern := s.prefix + ":" + branch + ":*"
	cut := len(s.prefix) + len(branch) + 2

	var tenants []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if len(key) > cut {
			tenants = append(tenants, key[cut:])
		}
	}
	if err := iter.Err(); err != nil {
		return nil, unavailable(err)
	}
	return tenants, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "dentalcare:session:"

// RedisStore keeps sessions in Redis so a restart, or a second
// instance behind a load balancer, does not lose in-flight dialogs.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a Redis-backed session store. The TTL doubles
// as the session idle timeout: every Save refreshes it.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (rs *RedisStore) Get(id string) (*Session, error) {
	ctx := context.Background()
	val, err := rs.rdb.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &s, nil
}

func (rs *RedisStore) GetOrCreate(id string) (*Session, error) {
	s, err := rs.Get(id)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	s = NewSession(id)
	if err := rs.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (rs *RedisStore) Save(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}
	ctx := context.Background()
	if err := rs.rdb.Set(ctx, sessionKey(s.ID), data, rs.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (rs *RedisStore) Delete(id string) error {
	ctx := context.Background()
	if err := rs.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

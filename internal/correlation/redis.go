package correlation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pendingPrefix  = "corr:pending:"
	consumedPrefix = "corr:consumed:"
)

// RedisStore is the production Store. The TTL on the pending key is the
// entry lifetime; GETDEL gives the at-most-one-winner removal, and a
// consumed tombstone with the same TTL classifies duplicates.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, key string, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, pendingPrefix+key, b, s.ttl)
	pipe.Del(ctx, consumedPrefix+key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, key string) (Entry, error) {
	val, err := s.rdb.GetDel(ctx, pendingPrefix+key).Result()
	if err == nil {
		var e Entry
		if uerr := json.Unmarshal([]byte(val), &e); uerr != nil {
			return Entry{}, fmt.Errorf("decode entry: %w", uerr)
		}
		// losers of the removal race see this tombstone
		_ = s.rdb.Set(ctx, consumedPrefix+key, "1", s.ttl).Err()
		return e, nil
	}
	if !errors.Is(err, redis.Nil) {
		return Entry{}, fmt.Errorf("take entry: %w", err)
	}

	n, err := s.rdb.Exists(ctx, consumedPrefix+key).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("check tombstone: %w", err)
	}
	if n > 0 {
		return Entry{}, ErrAlreadyConsumed
	}
	return Entry{}, ErrNotFound
}

// internal/session/redis.go
//
// Redis-backed Store, for running several server processes against one
// database. Entries are JSON values under "<prefix>:active:<userID>" and
// expire after ttl of inactivity.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultKeyPrefix = "guessword"

type redisStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps entries until
// they are cleared.
func NewRedisStore(rdb redis.UniversalClient, prefix string, ttl time.Duration) Store {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// DialRedis parses a redis:// URL and verifies the server answers PING.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (r *redisStore) key(userID int64) string {
	return r.prefix + ":active:" + strconv.FormatInt(userID, 10)
}

func (r *redisStore) Get(ctx context.Context, userID int64) (Active, error) {
	raw, err := r.rdb.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Active{}, ErrNoActive
	}
	if err != nil {
		return Active{}, err
	}
	var a Active
	if err := json.Unmarshal(raw, &a); err != nil {
		return Active{}, fmt.Errorf("decode active game: %w", err)
	}
	return a, nil
}

func (r *redisStore) Set(ctx context.Context, userID int64, a Active) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(userID), raw, r.ttl).Err()
}

func (r *redisStore) Clear(ctx context.Context, userID int64) error {
	return r.rdb.Del(ctx, r.key(userID)).Err()
}

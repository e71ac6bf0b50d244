package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
)

// RedisStore keeps each kind in a list under lumina:history:<kind>.
type RedisStore struct {
	rdb  *redis.Client
	size int
}

func NewRedisStore(rdb *redis.Client, size int) *RedisStore {
	if size <= 0 {
		size = consts.HistorySize
	}
	return &RedisStore{rdb: rdb, size: size}
}

func key(kind consts.HistoryKind) string {
	return consts.RedisHistoryKey + kind.String()
}

func (r *RedisStore) Add(ctx context.Context, kind consts.HistoryKind, value string) error {
	value = clean(value)
	if value == "" {
		return nil
	}

	k := key(kind)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, k, 0, value)
		pipe.LPush(ctx, k, value)
		pipe.LTrim(ctx, k, 0, int64(r.size-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("error storing %s history in redis: %w", kind, err)
	}
	return nil
}

func (r *RedisStore) Recent(ctx context.Context, kind consts.HistoryKind, n int) ([]string, error) {
	values, err := r.rdb.LRange(ctx, key(kind), 0, int64(limit(n, r.size)-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving %s history from redis: %w", kind, err)
	}
	return values, nil
}

func (r *RedisStore) Clear(ctx context.Context, kind consts.HistoryKind) error {
	if err := r.rdb.Del(ctx, key(kind)).Err(); err != nil {
		return fmt.Errorf("error clearing %s history in redis: %w", kind, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

// Package history keeps short most-recent-first lists of what a user has
// checked, such as analysed URLs and search queries.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
)

// Store is a bounded, deduplicated history. Adding a value that is already
// present moves it to the front.
type Store interface {
	Add(ctx context.Context, kind consts.HistoryKind, value string) error
	// Recent returns up to n values, newest first. n <= 0 returns all.
	Recent(ctx context.Context, kind consts.HistoryKind, n int) ([]string, error)
	Clear(ctx context.Context, kind consts.HistoryKind) error
	Close() error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
	BackendOff    Backend = "off"
)

var ErrUnknownBackend = errors.New("unknown history backend")

type Options struct {
	Backend  Backend
	Path     string
	RedisURL string
	Size     int
	Logger   *slog.Logger
}

// Open returns the store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.Size
	if size <= 0 {
		size = consts.HistorySize
	}

	switch Backend(strings.ToLower(string(opts.Backend))) {
	case BackendSQLite, "":
		store, err := NewSQLiteStore(ctx, opts.Path, size)
		if err != nil {
			return nil, err
		}
		logger.Debug("Opened history database", "path", opts.Path, "size", size)
		return store, nil
	case BackendRedis:
		redisURL := opts.RedisURL
		if redisURL == "" {
			redisURL = os.Getenv("REDIS_URL")
		}
		if redisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is not set")
		}
		redisOptions, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("error parsing redis url: %w", err)
		}
		rdb := redis.NewClient(redisOptions)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		logger.Debug("Connected to Redis", "addr", redisOptions.Addr, "size", size)
		return NewRedisStore(rdb, size), nil
	case BackendMemory:
		return NewMemoryStore(size), nil
	case BackendOff:
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
}

// Discard records nothing.
type Discard struct{}

func (Discard) Add(context.Context, consts.HistoryKind, string) error { return nil }

func (Discard) Recent(context.Context, consts.HistoryKind, int) ([]string, error) {
	return nil, nil
}

func (Discard) Clear(context.Context, consts.HistoryKind) error { return nil }
func (Discard) Close() error                                    { return nil }

func clean(value string) string {
	return strings.TrimSpace(value)
}

func limit(n, size int) int {
	if n <= 0 || n > size {
		return size
	}
	return n
}

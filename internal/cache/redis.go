package cache

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/llehouerou/lyricsync/internal/config"
	"github.com/llehouerou/lyricsync/internal/track"
)

const keySep = "\x1f"

// RedisStore keeps one hash per track key plus a set indexing all keys.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStore(rdb, cfg.Prefix), nil
}

// NewRedisStore wraps an existing client. Keys are namespaced by prefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "lyricsync"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, now: time.Now}
}

func (s *RedisStore) entryKey(key track.Key) string {
	return s.prefix + ":" + strings.Join([]string{key.Artist, key.Title, key.Album}, keySep)
}

func (s *RedisStore) indexKey() string {
	return s.prefix + ":keys"
}

func (s *RedisStore) Get(ctx context.Context, key track.Key) (Entry, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, s.entryKey(key)).Result()
	if err != nil {
		return Entry{}, false, err
	}
	if len(fields) == 0 {
		return Entry{}, false, nil
	}
	e, err := parseHash(fields)
	if err != nil {
		return Entry{}, false, err
	}
	e.Key = key
	return e, true, nil
}

// Set writes all fields in one MULTI so readers never see a partial entry.
func (s *RedisStore) Set(ctx context.Context, key track.Key, hasLyrics bool, text, source string) error {
	k := s.entryKey(key)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k, map[string]any{
			"artist":     key.Artist,
			"title":      key.Title,
			"album":      key.Album,
			"has_lyrics": hasLyrics,
			"source":     source,
			"lrc_text":   text,
			"updated_at": s.now().Unix(),
		})
		pipe.SAdd(ctx, s.indexKey(), k)
		return nil
	})
	return err
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, s.indexKey())
		return nil
	})
	return err
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]Entry, error) {
	keys, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, err
	}

	cmds := make([]*redis.StringStringMapCmd, len(keys))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pipe.HGetAll(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(cmds))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue // removed since SMEMBERS
		}
		e, err := parseHash(fields)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.rdb.SCard(ctx, s.indexKey()).Result()
	return int(n), err
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func parseHash(fields map[string]string) (Entry, error) {
	hasLyrics, err := strconv.ParseBool(fields["has_lyrics"])
	if err != nil {
		return Entry{}, fmt.Errorf("parse has_lyrics: %w", err)
	}
	updatedAt, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return Entry{
		Key: track.Key{
			Artist: fields["artist"],
			Title:  fields["title"],
			Album:  fields["album"],
		},
		HasLyrics: hasLyrics,
		Source:    fields["source"],
		Text:      fields["lrc_text"],
		UpdatedAt: time.Unix(updatedAt, 0),
	}, nil
}

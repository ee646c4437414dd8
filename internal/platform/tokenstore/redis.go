package tokenstore

import (
	"context"
	"fmt"
	"time"

	"homefind/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// Store keeps the set of live refresh-token IDs. A refresh token is only
// honored while its jti is present here; logout deletes the jti and a
// refresh rotates it. Entries expire together with the token itself.
type Store struct {
	rdb *redis.Client
}

func Connect(cfg *config.Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func key(jti string) string {
	return "refresh_token:" + jti
}

// Save registers a refresh-token ID for the given user with the token's TTL.
func (s *Store) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("tokenstore.Save: %w", err)
	}
	return nil
}

// Exists reports whether the refresh-token ID is still live.
func (s *Store) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("tokenstore.Exists: %w", err)
	}
	return n > 0, nil
}

// Revoke removes a refresh-token ID. Revoking an unknown ID is a no-op.
func (s *Store) Revoke(ctx context.Context, jti string) error {
	if err := s.rdb.Del(ctx, key(jti)).Err(); err != nil {
		return fmt.Errorf("tokenstore.Revoke: %w", err)
	}
	return nil
}

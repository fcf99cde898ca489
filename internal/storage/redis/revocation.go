// Package redis keeps the deny-list of logged-out tokens.
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/interview-assistant/internal/config"
	"github.com/dtroode/interview-assistant/internal/model"
)

const keyPrefix = "revoked:"

var (
	_ model.RevocationStore = (*RevocationStore)(nil)
	_ io.Closer             = (*RevocationStore)(nil)
)

// RevocationStore stores revoked token IDs as keys that expire with the token.
type RevocationStore struct {
	rdb *redis.Client
}

// NewRevocationStore connects to Redis and checks the connection.
func NewRevocationStore(ctx context.Context, cfg config.Redis) (*RevocationStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RevocationStore{rdb: rdb}, nil
}

// Revoke denies tokenID for ttl. A non-positive ttl means the token already expired.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.rdb.Get(ctx, keyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}

func (s *RevocationStore) Close() error {
	return s.rdb.Close()
}

var (
	_ model.RevocationStore = NoopRevocationStore{}
	_ io.Closer             = NoopRevocationStore{}
)

// NoopRevocationStore is used when no Redis address is configured; logout then
// only discards the token on the client side.
type NoopRevocationStore struct{}

func (NoopRevocationStore) Revoke(context.Context, string, time.Duration) error { return nil }

func (NoopRevocationStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func (NoopRevocationStore) Close() error { return nil }

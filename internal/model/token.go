package model

import (
	"context"
	"time"
)

// TokenManager issues and validates signed session tokens.
type TokenManager interface {
	Issue(userID int64, email string) (string, Identity, error)
	Parse(token string) (Identity, error)
}

// RevocationStore keeps a deny-list of token IDs until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Identity is the resolved caller of a request.
type Identity struct {
	UserID    int64
	Email     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

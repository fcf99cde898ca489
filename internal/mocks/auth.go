package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/interview-assistant/internal/model"
)

type TokenManager struct{ mock.Mock }

func (m *TokenManager) Issue(userID int64, email string) (string, model.Identity, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Get(1).(model.Identity), args.Error(2)
}

func (m *TokenManager) Parse(token string) (model.Identity, error) {
	args := m.Called(token)
	return args.Get(0).(model.Identity), args.Error(1)
}

type PasswordHasher struct{ mock.Mock }

func (m *PasswordHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *PasswordHasher) Verify(plaintext, hash string) bool {
	return m.Called(plaintext, hash).Bool(0)
}

type RevocationStore struct{ mock.Mock }

func (m *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

var (
	_ model.TokenManager    = (*TokenManager)(nil)
	_ model.PasswordHasher  = (*PasswordHasher)(nil)
	_ model.RevocationStore = (*RevocationStore)(nil)
)

package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dtroode/interview-assistant/internal/model"
)

// MemStorage is an in-memory object store.
type MemStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{objects: map[string][]byte{}}
}

var _ model.Storage = (*MemStorage)(nil)

func (s *MemStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *MemStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, model.ErrArchiveNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.objects[key]
	return ok, nil
}

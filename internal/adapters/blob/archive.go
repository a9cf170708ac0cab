// Package blob archives uploaded images in object storage.
package blob

import (
	"context"
	"strings"
	"sync"
)

// Archive stores raw objects under string keys.
type Archive interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// NopArchive discards every object.
type NopArchive struct{}

// Put accepts and drops data.
func (NopArchive) Put(_ context.Context, key, _ string, _ []byte) error {
	return validateKey(key)
}

// Get always reports ErrNotFound.
func (NopArchive) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

// MemoryArchive keeps objects in process memory.
type MemoryArchive struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryArchive creates an empty MemoryArchive.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{objects: make(map[string][]byte)}
}

// Put stores a copy of data under key.
func (m *MemoryArchive) Put(_ context.Context, key, _ string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[key] = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the object under key.
func (m *MemoryArchive) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Len returns the number of stored objects.
func (m *MemoryArchive) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

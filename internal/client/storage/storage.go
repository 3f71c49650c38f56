// Package storage defines durable storage for the client session.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates that no session has been persisted.
var ErrNotFound = errors.New("session not found")

// SessionStorage keeps one serialized session. Values are opaque to the
// storage layer.
type SessionStorage interface {
	// Load returns ErrNotFound when nothing is stored.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	// Clear is a no-op when nothing is stored.
	Clear(ctx context.Context) error
}

// Memory is an in-process SessionStorage.
type Memory struct {
	data []byte
}

func (m *Memory) Load(context.Context) ([]byte, error) {
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Save(_ context.Context, data []byte) error {
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.data = nil
	return nil
}

package boltdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rentwheels/marketplace/internal/client/storage"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStorage_LoadEmpty(t *testing.T) {
	s, _ := newTestStorage(t)

	if _, err := s.Load(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStorage_SaveLoadClear(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	if err := s.Save(ctx, []byte(`{"token":"a"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, []byte(`{"token":"b"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != `{"token":"b"}` {
		t.Fatalf("expected latest value, got %s", got)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}

	// clearing twice is fine
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestStorage_SurvivesReopen(t *testing.T) {
	s, path := newTestStorage(t)
	ctx := context.Background()

	if err := s.Save(ctx, []byte("persisted")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != "persisted" {
		t.Fatalf("got %q", got)
	}
}

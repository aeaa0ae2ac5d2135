package storage_test

import (
	"context"
	"testing"

	"movie_review/internal/shared"
	"movie_review/internal/storage"
	"movie_review/internal/storage/memory"
)

func TestOpen_Memory(t *testing.T) {
	repo, closeFn, err := storage.Open(context.Background(), shared.Config{StoreDriver: "memory"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	if _, ok := repo.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", repo)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, _, err := storage.Open(context.Background(), shared.Config{StoreDriver: "sqlite"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

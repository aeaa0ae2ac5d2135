package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"movie_review/internal/domain"
	"movie_review/internal/storage/memory"
)

func TestStore_InsertGetListCount(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	t1 := "First"
	id1, err := s.InsertReview(ctx, domain.NewReview{Title: &t1, CreatedAt: day.Add(time.Hour)})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id2, _ := s.InsertReview(ctx, domain.NewReview{CreatedAt: day.Add(-time.Minute)})   // yesterday
	id3, _ := s.InsertReview(ctx, domain.NewReview{CreatedAt: day.Add(24 * time.Hour)}) // tomorrow 00:00

	n, err := s.CountCreatedBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil || n != 1 {
		t.Fatalf("count: n=%d err=%v", n, err)
	}

	got, err := s.GetReview(ctx, id1)
	if err != nil || got.Title == nil || *got.Title != "First" {
		t.Fatalf("get: %+v err=%v", got, err)
	}

	all, _ := s.ListReviews(ctx)
	if len(all) != 3 || all[0].ID != id1 || all[1].ID != id2 || all[2].ID != id3 {
		t.Fatalf("list order: %+v", all)
	}
}

func TestStore_GetErrors(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if _, err := s.GetReview(ctx, "not-an-id"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := s.GetReview(ctx, domain.NewID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

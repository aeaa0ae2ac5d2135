// Package memory is an in-process review store for local runs and tests.
// Contents are lost on restart.
package memory

import (
	"context"
	"sync"
	"time"

	"movie_review/internal/domain"
)

type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]domain.Review
}

func New() *Store { return &Store{byID: make(map[string]domain.Review)} }

func (s *Store) InsertReview(ctx context.Context, r domain.NewReview) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rv := domain.Review{
		ID:              domain.NewID(),
		Title:           r.Title,
		Content:         r.Content,
		ImageURL:        r.ImageURL,
		MetaDescription: r.MetaDescription,
		FocusKeyword:    r.FocusKeyword,
		SEOTags:         append([]string{}, r.SEOTags...),
		CreatedAt:       r.CreatedAt.UTC(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[rv.ID] = rv
	s.order = append(s.order, rv.ID)
	return rv.ID, nil
}

func (s *Store) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, rv := range s.byID {
		if !rv.CreatedAt.Before(from) && rv.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetReview(ctx context.Context, id string) (domain.Review, error) {
	if _, err := domain.ParseID(id); err != nil {
		return domain.Review{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rv, ok := s.byID[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, nil
}

// ListReviews returns reviews in insertion order.
func (s *Store) ListReviews(ctx context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Review, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

package app

import (
	"context"
	"time"

	"movie_review/internal/domain"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the read side. c may be nil to disable caching.
func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetReview(ctx context.Context, id string) (domain.Review, error) {
	if _, err := domain.ParseID(id); err != nil {
		return domain.Review{}, err
	}

	// reviews are never updated, so a cached copy cannot go stale
	key := "review:" + id
	var rv domain.Review
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &rv); ok {
			return rv, nil
		}
	}
	rv, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rv, int(s.cacheTTL.Seconds()))
	}
	return rv, nil
}

// ListReviews always reads the store. Only single reviews are cached: a
// cached list could be written back after a concurrent insert and hide it.
func (s *QueryService) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rs, err := s.repo.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	// copy slice to avoid aliasing the repo's backing array
	return copyReviews(rs), nil
}

// Ping reports whether the backing store is reachable.
func (s *QueryService) Ping(ctx context.Context) error { return s.repo.Ping(ctx) }

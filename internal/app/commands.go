package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"movie_review/internal/domain"
)

type GenerationService struct {
	repo       domain.ReviewRepository
	gateway    domain.WebhookGateway
	dailyLimit int
	now        func() time.Time
}

func NewGenerationService(r domain.ReviewRepository, g domain.WebhookGateway, dailyLimit int) *GenerationService {
	return &GenerationService{repo: r, gateway: g, dailyLimit: dailyLimit, now: time.Now}
}

// WithClock replaces the time source; used by tests to pin the UTC day.
func (s *GenerationService) WithClock(now func() time.Time) *GenerationService {
	s.now = now
	return s
}

// Generate runs the daily-cap check, the webhook round-trip, sanitizing,
// parsing and the insert, in that order. Failures come back as the domain
// error kinds; anything unexpected is returned as-is.
func (s *GenerationService) Generate(ctx context.Context, payload json.RawMessage) (domain.Review, error) {
	// 1) Daily cap, before any outbound call.
	from, to := dayWindow(s.now())
	n, err := s.repo.CountCreatedBetween(ctx, from, to)
	if err != nil {
		return domain.Review{}, fmt.Errorf("count reviews for %s: %w", from.Format(time.DateOnly), err)
	}
	if n >= int64(s.dailyLimit) {
		log.Info().Int64("today", n).Int("limit", s.dailyLimit).Msg("daily review limit reached")
		return domain.Review{}, &domain.RateLimitError{Limit: s.dailyLimit}
	}

	// 2) Webhook. The gateway owns the timeout; there is no retry.
	raw, err := s.gateway.Generate(ctx, payload)
	if err != nil {
		return domain.Review{}, err
	}

	// 3) Cleanup + parse.
	clean := SanitizeWebhookText(raw)
	var parsed any
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		log.Warn().Err(err).Int("bytes", len(raw)).Msg("webhook body is not valid JSON after cleanup")
		return domain.Review{}, &domain.MalformedPayloadError{Err: err}
	}
	data, ok := parsed.(map[string]any)
	if !ok {
		return domain.Review{}, fmt.Errorf("webhook JSON is %T, want an object", parsed)
	}

	// 4) Persist, then read back what the store holds.
	id, err := s.repo.InsertReview(ctx, mapGenerated(data, s.now()))
	if err != nil {
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}

	rv, err := s.repo.GetReview(ctx, id)
	if err != nil {
		// a just-inserted id that cannot be read is not a client error
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return domain.Review{}, fmt.Errorf("read back review %s: %v", id, err)
		}
		return domain.Review{}, fmt.Errorf("read back review %s: %w", id, err)
	}

	log.Info().Str("id", rv.ID).Int("tags", len(rv.SEOTags)).Msg("review generated")
	return rv, nil
}


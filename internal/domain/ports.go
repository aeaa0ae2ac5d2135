package domain

import (
	"context"
	"encoding/json"
	"time"
)

type ReviewRepository interface {
	// Write path
	InsertReview(ctx context.Context, r NewReview) (string, error)

	// Read paths
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	GetReview(ctx context.Context, id string) (Review, error)
	ListReviews(ctx context.Context) ([]Review, error)
	Ping(ctx context.Context) error
}

// WebhookGateway forwards a payload to the automation webhook and returns the raw body text.
type WebhookGateway interface {
	Generate(ctx context.Context, payload json.RawMessage) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

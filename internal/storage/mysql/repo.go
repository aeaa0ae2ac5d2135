package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"movie_review/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// Repo keeps reviews in one MySQL table. IDs are ObjectID hex strings
// generated here, so they validate the same way as in the Mongo store.
// The DSN must set parseTime=true and loc=UTC.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the reviews table. Safe to run multiple times.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaSQL)
	return err
}

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) InsertReview(ctx context.Context, nr domain.NewReview) (string, error) {
	tags := nr.SEOTags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	id := domain.NewID()
	_, err = r.db.ExecContext(ctx, insertReviewSQL,
		id,
		valStr(nr.Title),
		valStr(nr.Content),
		valStr(nr.ImageURL),
		valStr(nr.MetaDescription),
		valStr(nr.FocusKeyword),
		string(tagsJSON),
		nr.CreatedAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countCreatedBetweenSQL, from.UTC(), to.UTC()).Scan(&n)
	return n, err
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	if _, err := domain.ParseID(id); err != nil {
		return domain.Review{}, err
	}
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanReview(s scanner) (domain.Review, error) {
	var (
		rv                              domain.Review
		title, content, image, meta, kw sql.NullString
		tagsRaw                         []byte
		createdAt                       time.Time
	)
	if err := s.Scan(&rv.ID, &title, &content, &image, &meta, &kw, &tagsRaw, &createdAt); err != nil {
		return domain.Review{}, err
	}
	rv.Title = ptrNull(title)
	rv.Content = ptrNull(content)
	rv.ImageURL = ptrNull(image)
	rv.MetaDescription = ptrNull(meta)
	rv.FocusKeyword = ptrNull(kw)
	rv.CreatedAt = createdAt.UTC()

	rv.SEOTags = []string{}
	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &rv.SEOTags); err != nil {
			log.Error().Err(err).Str("id", rv.ID).Msg("decode seo_tags failed")
			return domain.Review{}, fmt.Errorf("decode seo_tags for %s: %w", rv.ID, err)
		}
	}
	return rv, nil
}

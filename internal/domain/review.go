package domain

import "time"

// Review is a generated article persisted after a successful webhook round-trip.
// Optional text fields are nil when the webhook omitted them.
type Review struct {
	ID              string
	Title           *string
	Content         *string
	ImageURL        *string
	MetaDescription *string
	FocusKeyword    *string
	SEOTags         []string
	CreatedAt       time.Time // UTC, set at insert
}

// NewReview is the write model handed to a repository; the repository assigns the ID.
type NewReview struct {
	Title           *string
	Content         *string
	ImageURL        *string
	MetaDescription *string
	FocusKeyword    *string
	SEOTags         []string
	CreatedAt       time.Time
}

// ReviewView is the public JSON representation.
type ReviewView struct {
	ID              string    `json:"id"`
	Title           *string   `json:"title"`
	Content         *string   `json:"content"`
	ImageURL        *string   `json:"image_url"`
	MetaDescription *string   `json:"meta_description"`
	FocusKeyword    *string   `json:"focus_keyword"`
	SEOTags         []string  `json:"seo_tags"`
	CreatedAt       time.Time `json:"created_at"`
}

func (r Review) View() ReviewView {
	tags := r.SEOTags
	if tags == nil {
		tags = []string{}
	}
	return ReviewView{
		ID:              r.ID,
		Title:           r.Title,
		Content:         r.Content,
		ImageURL:        r.ImageURL,
		MetaDescription: r.MetaDescription,
		FocusKeyword:    r.FocusKeyword,
		SEOTags:         tags,
		CreatedAt:       r.CreatedAt.UTC(),
	}
}

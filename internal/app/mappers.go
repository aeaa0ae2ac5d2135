package app

import (
	"time"

	"movie_review/internal/domain"
)

/********** tiny helpers **********/

// optStr returns the string at key, or nil when missing or not a string.
func optStr(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

// stringSlice accepts a JSON array and keeps its string elements in order.
// Missing or non-array values yield an empty, non-nil slice.
func stringSlice(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, it := range raw {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

/********** webhook object -> review **********/

// mapGenerated extracts the known review keys from the parsed webhook object.
// Unknown keys are ignored; nothing is required.
func mapGenerated(data map[string]any, now time.Time) domain.NewReview {
	return domain.NewReview{
		Title:           optStr(data, "title"),
		Content:         optStr(data, "content"),
		ImageURL:        optStr(data, "image_url"),
		MetaDescription: optStr(data, "meta_description"),
		FocusKeyword:    optStr(data, "focus_keyword"),
		SEOTags:         stringSlice(data, "seo_tags"),
		CreatedAt:       now.UTC(),
	}
}

// dayWindow returns the UTC calendar day [start, end) containing now.
func dayWindow(now time.Time) (time.Time, time.Time) {
	u := now.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func copyReviews(in []domain.Review) []domain.Review {
	if len(in) == 0 {
		return []domain.Review{}
	}
	out := make([]domain.Review, len(in))
	copy(out, in)
	return out
}

package mysql

import _ "embed"

// schemaSQL is a single statement so it runs without multiStatements.
//
//go:embed schema.sql
var schemaSQL string

const insertReviewSQL = `
INSERT INTO reviews
  (id, title, content, image_url, meta_description, focus_keyword, seo_tags, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

// Half-open window so a review at midnight belongs to exactly one day.
const countCreatedBetweenSQL = `
SELECT COUNT(*) FROM reviews WHERE created_at >= ? AND created_at < ?
`

const selectReviewColumns = `
SELECT id, title, content, image_url, meta_description, focus_keyword, seo_tags, created_at
FROM reviews
`

const getReviewSQL = selectReviewColumns + `WHERE id = ?`

// seq is the insertion counter, giving list-all a stable native order.
const listReviewsSQL = selectReviewColumns + `ORDER BY seq`

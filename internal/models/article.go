package models

import "time"

// Article represents a crawled article as returned by GET /articles.
type Article struct {
	ID            int        `json:"id"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	CrawledAt     time.Time  `json:"crawled_at"`
	SourceID      int        `json:"source_id"`
	CategoryID    *int       `json:"category_id,omitempty"`
}

// ArticleQuery holds the supported query parameters for GET /articles.
// Zero values are omitted from the request.
type ArticleQuery struct {
	Skip       int
	Limit      int
	CategoryID int
	Search     string
}

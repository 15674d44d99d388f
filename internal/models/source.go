package models

import "time"

// Source represents a crawled news source.
type Source struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SourceCreate is the body for POST /sources.
type SourceCreate struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Slug string `json:"slug"`
}

// SourceUpdate is the body for PUT /sources/{id}. Nil fields are left
// unchanged.
type SourceUpdate struct {
	Name *string `json:"name,omitempty"`
	Slug *string `json:"slug,omitempty"`
	URL  *string `json:"url,omitempty"`
}

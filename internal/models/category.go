package models

import "time"

// Category represents a topic category users can follow.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryCreate is the body for POST /categories.
type CategoryCreate struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// CategoryUpdate is the body for PUT /categories/{id}. Nil fields are left
// unchanged.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CategoryPreferenceUpdate is the body for PUT /categories/me: the full set
// of category IDs the user wants to follow.
type CategoryPreferenceUpdate struct {
	CategoryIDs []int `json:"category_ids"`
}

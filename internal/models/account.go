package models

import "time"

// User represents a user record as returned by the backend.
type User struct {
	ID          int        `json:"id"`
	FirebaseUID string     `json:"firebase_uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginRequest is the body for POST /auth/login: the freshly minted identity
// token plus profile fields the backend mirrors into its user record.
type LoginRequest struct {
	FirebaseToken string `json:"firebase_token"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name,omitempty"`
	PhotoURL      string `json:"photo_url,omitempty"`
}

// UserUpdate is the body for PUT /auth/me. Nil fields are left unchanged.
type UserUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

package client

import (
	"context"
	"net/http"

	"github.com/haipham/newsdeck/internal/models"
)

// Login registers or syncs the signed-in user with the backend.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me retrieves the current user record.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe updates the current user's profile fields.
func (c *Client) UpdateMe(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/auth/me", nil, upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

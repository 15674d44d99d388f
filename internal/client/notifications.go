package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haipham/newsdeck/internal/models"
)

// NotificationChannels retrieves the current user's notification channels.
func (c *Client) NotificationChannels(ctx context.Context) ([]*models.NotificationChannel, error) {
	var channels []*models.NotificationChannel
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// NotificationChannel retrieves a single notification channel by ID.
func (c *Client) NotificationChannel(ctx context.Context, channelID int) (*models.NotificationChannel, error) {
	var channel models.NotificationChannel
	path := fmt.Sprintf("/notifications/%d", channelID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// CreateNotificationChannel creates a new notification channel.
func (c *Client) CreateNotificationChannel(ctx context.Context, create models.NotificationChannelCreate) (*models.NotificationChannel, error) {
	var channel models.NotificationChannel
	if err := c.do(ctx, http.MethodPost, "/notifications", nil, create, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// UpdateNotificationChannel updates an existing notification channel.
func (c *Client) UpdateNotificationChannel(ctx context.Context, channelID int, upd models.NotificationChannelUpdate) (*models.NotificationChannel, error) {
	var channel models.NotificationChannel
	path := fmt.Sprintf("/notifications/%d", channelID)
	if err := c.do(ctx, http.MethodPut, path, nil, upd, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// DeleteNotificationChannel deletes a notification channel.
func (c *Client) DeleteNotificationChannel(ctx context.Context, channelID int) error {
	path := fmt.Sprintf("/notifications/%d", channelID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

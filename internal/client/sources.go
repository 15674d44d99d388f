package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haipham/newsdeck/internal/models"
)

// Sources retrieves all crawled news sources.
func (c *Client) Sources(ctx context.Context) ([]*models.Source, error) {
	var sources []*models.Source
	if err := c.do(ctx, http.MethodGet, "/sources", nil, nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// Source retrieves a source by ID.
func (c *Client) Source(ctx context.Context, sourceID int) (*models.Source, error) {
	var source models.Source
	path := fmt.Sprintf("/sources/%d", sourceID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// SourceBySlug retrieves a source by its slug.
func (c *Client) SourceBySlug(ctx context.Context, slug string) (*models.Source, error) {
	var source models.Source
	if err := c.do(ctx, http.MethodGet, "/sources/slug/"+slug, nil, nil, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// CreateSource registers a new news source.
func (c *Client) CreateSource(ctx context.Context, create models.SourceCreate) (*models.Source, error) {
	var source models.Source
	if err := c.do(ctx, http.MethodPost, "/sources", nil, create, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// UpdateSource updates an existing source.
func (c *Client) UpdateSource(ctx context.Context, sourceID int, upd models.SourceUpdate) (*models.Source, error) {
	var source models.Source
	path := fmt.Sprintf("/sources/%d", sourceID)
	if err := c.do(ctx, http.MethodPut, path, nil, upd, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// DeleteSource deletes a source.
func (c *Client) DeleteSource(ctx context.Context, sourceID int) error {
	path := fmt.Sprintf("/sources/%d", sourceID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

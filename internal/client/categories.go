package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/haipham/newsdeck/internal/models"
)

// Categories retrieves all topic categories.
func (c *Client) Categories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Category retrieves a category by ID.
func (c *Client) Category(ctx context.Context, categoryID int) (*models.Category, error) {
	var category models.Category
	path := fmt.Sprintf("/categories/%d", categoryID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryBySlug retrieves a category by its slug.
func (c *Client) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	path := "/categories/slug/" + slug
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory creates a new category.
func (c *Client) CreateCategory(ctx context.Context, create models.CategoryCreate) (*models.Category, error) {
	var category models.Category
	if err := c.do(ctx, http.MethodPost, "/categories", nil, create, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory updates an existing category.
func (c *Client) UpdateCategory(ctx context.Context, categoryID int, upd models.CategoryUpdate) (*models.Category, error) {
	var category models.Category
	path := fmt.Sprintf("/categories/%d", categoryID)
	if err := c.do(ctx, http.MethodPut, path, nil, upd, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, categoryID int) error {
	path := fmt.Sprintf("/categories/%d", categoryID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// MyCategories retrieves the categories the current user follows.
func (c *Client) MyCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := c.do(ctx, http.MethodGet, "/categories/me", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateMyCategories replaces the current user's followed category set.
func (c *Client) UpdateMyCategories(ctx context.Context, categoryIDs []int) ([]*models.Category, error) {
	var categories []*models.Category
	body := models.CategoryPreferenceUpdate{CategoryIDs: categoryIDs}
	if err := c.do(ctx, http.MethodPut, "/categories/me", nil, body, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/haipham/newsdeck/internal/models"
)

// Articles retrieves crawled articles with pagination, category filtering,
// and search.
func (c *Client) Articles(ctx context.Context, q models.ArticleQuery) ([]*models.Article, error) {
	query := url.Values{}
	if q.Skip > 0 {
		query.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.CategoryID > 0 {
		query.Set("category_id", strconv.Itoa(q.CategoryID))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var articles []*models.Article
	if err := c.do(ctx, http.MethodGet, "/articles", query, nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

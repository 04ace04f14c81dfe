package api

import (
	"context"
	"strconv"

	"github.com/bazaargo/storefront/internal/domain"
)

type CreateReviewRequest struct {
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

func (c *Client) CreateReview(ctx context.Context, req CreateReviewRequest) (*domain.Review, error) {
	var out domain.Review
	if err := c.post(ctx, "/reviews", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Reviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	var out []domain.Review
	path := "/products/" + strconv.FormatInt(productID, 10) + "/reviews"
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

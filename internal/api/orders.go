package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/bazaargo/storefront/internal/domain"
)

// CreateOrderRequest is the order-creation payload. Items carry no prices;
// the server re-prices at creation time. The idempotency key lets the backend
// dedupe a resubmitted checkout.
type CreateOrderRequest struct {
	Items          []domain.OrderItem `json:"items"`
	CouponCode     string             `json:"coupon_code,omitempty"`
	Address        string             `json:"address"`
	PaymentMethod  string             `json:"payment_method"`
	IdempotencyKey string             `json:"idempotency_key"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cod"
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}
	var out domain.Order
	if err := c.post(ctx, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.get(ctx, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Order(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	if err := c.get(ctx, "/orders/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	path := "/orders/" + strconv.FormatInt(id, 10) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

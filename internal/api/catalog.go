package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/bazaargo/storefront/internal/domain"
)

// ProductFilter maps to the product list query parameters.
type ProductFilter struct {
	Search   string
	Category int64
	Shop     int64
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Sort     string
	Page     int
	PageSize int
}

func (f ProductFilter) values() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category > 0 {
		q.Set("category", strconv.FormatInt(f.Category, 10))
	}
	if f.Shop > 0 {
		q.Set("shop", strconv.FormatInt(f.Shop, 10))
	}
	if !f.MinPrice.IsZero() {
		q.Set("min_price", f.MinPrice.String())
	}
	if !f.MaxPrice.IsZero() {
		q.Set("max_price", f.MaxPrice.String())
	}
	if f.Sort != "" {
		q.Set("sort", f.Sort)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// ProductPage is one page of filtered results.
type ProductPage struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// PlatformStats is the marketplace-wide counters block shown on the landing
// page.
type PlatformStats struct {
	Products  int `json:"products"`
	Shops     int `json:"shops"`
	Orders    int `json:"orders"`
	Customers int `json:"customers"`
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Shops(ctx context.Context) ([]domain.Shop, error) {
	var out []domain.Shop
	if err := c.get(ctx, "/shops", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Shop(ctx context.Context, id int64) (*domain.Shop, error) {
	var out domain.Shop
	if err := c.get(ctx, "/shops/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	var out ProductPage
	if err := c.get(ctx, "/products", filter.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := c.get(ctx, "/products/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context) (*PlatformStats, error) {
	var out PlatformStats
	if err := c.get(ctx, "/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

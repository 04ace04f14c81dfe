package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

type Shop struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// Variant is a purchasable variation of a product with its own stock figure.
type Variant struct {
	ID    string `json:"id"`
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
	Stock int    `json:"stock"`
}

// Product is the denormalized snapshot stored in cart lines. It is captured
// at add-to-cart time and never refreshed; the server remains the price
// authority at order creation.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MRP         decimal.Decimal `json:"mrp,omitempty"` // zero when the product has no reference price
	Stock       int             `json:"stock"`
	Images      []string        `json:"images,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`
	ShopID      int64           `json:"shop_id,omitempty"`
	CategoryID  int64           `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at,omitempty"`
}

// AvailableStock resolves the stock figure for a variant, falling back to the
// product's flat stock when variantID is empty or unknown.
func (p Product) AvailableStock(variantID string) int {
	if variantID == "" {
		return p.Stock
	}
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v.Stock
		}
	}
	return p.Stock
}

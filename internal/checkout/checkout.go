// Package checkout coordinates the cart, coupon validation, and order
// placement. The cart store itself never talks to the backend; this layer
// does.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bazaargo/storefront/internal/api"
	"github.com/bazaargo/storefront/internal/cart"
	"github.com/bazaargo/storefront/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

type Service struct {
	cart    *cart.Store
	backend *api.Client
	logger  *zap.Logger
}

func NewService(cartStore *cart.Store, backend *api.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cart: cartStore, backend: backend, logger: logger}
}

// ApplyCoupon validates the code server-side and records the returned
// discount on the cart for display. Any later cart mutation drops it.
func (s *Service) ApplyCoupon(ctx context.Context, code string) (*domain.AppliedCoupon, error) {
	if s.cart.ItemCount() == 0 {
		return nil, ErrEmptyCart
	}

	result, err := s.backend.ValidateCoupon(ctx, api.ValidateCouponRequest{
		Code:     code,
		Items:    s.cart.CheckoutSnapshot(),
		Subtotal: s.cart.Totals().Subtotal,
	})
	if err != nil {
		return nil, fmt.Errorf("validate coupon: %w", err)
	}

	applied := domain.AppliedCoupon{
		Code:     result.Code,
		Discount: result.Discount,
		Message:  result.Message,
	}
	s.cart.ApplyCoupon(applied)
	return &applied, nil
}

// PlaceOrderWithCoupon validates the code and places the order in one call.
// The applied coupon lives only in process memory, so a caller that did not
// apply one earlier in its own lifetime has to hand the code in here.
func (s *Service) PlaceOrderWithCoupon(ctx context.Context, address, code string) (*domain.Order, error) {
	if code != "" {
		if _, err := s.ApplyCoupon(ctx, code); err != nil {
			return nil, err
		}
	}
	return s.PlaceOrder(ctx, address)
}

// PlaceOrder submits the checkout snapshot and clears the cart on success.
// The snapshot carries no prices; the server re-prices every line.
func (s *Service) PlaceOrder(ctx context.Context, address string) (*domain.Order, error) {
	items := s.cart.CheckoutSnapshot()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	req := api.CreateOrderRequest{
		Items:   items,
		Address: address,
	}
	if c := s.cart.Coupon(); c != nil {
		req.CouponCode = c.Code
	}

	order, err := s.backend.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.cart.Clear()
	s.logger.Info("order placed", zap.Int64("order_id", order.ID))
	return order, nil
}

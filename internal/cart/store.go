// Package cart owns the client-side cart state: line list, totals, coupon
// bookkeeping, and change notification for the persistence layer.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bazaargo/storefront/internal/domain"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// StockError reports a rejected mutation that would exceed available stock.
// The cart is left untouched; callers surface the message inline.
type StockError struct {
	Key       domain.LineKey
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("only %d in stock for product %d (requested %d)", e.Available, e.Key.ProductID, e.Requested)
}

// Config carries the delivery-fee rule: CODFee applies while the subtotal is
// below FreeDeliveryAbove.
type Config struct {
	CODFee            decimal.Decimal
	FreeDeliveryAbove decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		CODFee:            decimal.NewFromInt(50),
		FreeDeliveryAbove: decimal.NewFromInt(500),
	}
}

// Subscriber receives the full line list after every change. The persistence
// writer registers itself here; the store never calls storage directly.
type Subscriber func(lines []domain.CartLine)

// Store is the authoritative client-side cart. All mutation happens under a
// single mutex; callers today are a single event loop, the lock keeps the
// entry points safe if that changes.
type Store struct {
	mu     sync.RWMutex
	lines  []domain.CartLine
	coupon *domain.AppliedCoupon
	cfg    Config
	subs   []Subscriber
	logger *zap.Logger
}

func NewStore(cfg Config, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cfg: cfg, logger: logger}
}

// Subscribe registers a change listener. Not safe to call concurrently with
// mutations; wire subscribers up front.
func (s *Store) Subscribe(fn Subscriber) {
	s.subs = append(s.subs, fn)
}

// Restore replaces the line list from persisted state without notifying
// subscribers, so startup does not immediately rewrite storage.
func (s *Store) Restore(lines []domain.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append([]domain.CartLine(nil), lines...)
}

// AddItem inserts a new line or merges into an existing one. The merged
// quantity may never exceed the stock known for the (product, variant) pair.
func (s *Store) AddItem(p domain.Product, quantity int, size, color, variantID string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.LineKey{ProductID: p.ID, Size: size, Color: color, VariantID: variantID}
	available := p.AvailableStock(variantID)

	if i := s.indexOf(key); i >= 0 {
		merged := s.lines[i].Quantity + quantity
		if merged > available {
			return &StockError{Key: key, Requested: merged, Available: available}
		}
		s.lines[i].Quantity = merged
	} else {
		if quantity > available {
			return &StockError{Key: key, Requested: quantity, Available: available}
		}
		s.lines = append(s.lines, domain.CartLine{
			Product:   p,
			Quantity:  quantity,
			Size:      size,
			Color:     color,
			VariantID: variantID,
		})
	}

	s.dropCouponLocked()
	s.notifyLocked()
	return nil
}

// UpdateQuantity overwrites the quantity of the matching line. A missing line
// is a no-op; a non-positive quantity removes the line.
func (s *Store) UpdateQuantity(key domain.LineKey, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return nil
	}

	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		s.dropCouponLocked()
		s.notifyLocked()
		return nil
	}

	available := s.lines[i].Product.AvailableStock(key.VariantID)
	if quantity > available {
		return &StockError{Key: key, Requested: quantity, Available: available}
	}

	s.lines[i].Quantity = quantity
	s.dropCouponLocked()
	s.notifyLocked()
	return nil
}

// RemoveItem filters out the matching line; absent lines are a no-op.
func (s *Store) RemoveItem(key domain.LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(key)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.dropCouponLocked()
	s.notifyLocked()
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.coupon = nil
	s.notifyLocked()
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CartLine(nil), s.lines...)
}

// Totals recomputes from the line list on every call. The coupon discount is
// carried for display; Total stays Subtotal + CODFee so the fee rule is
// independent of coupon state.
func (s *Store) Totals() domain.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t domain.Totals
	t.Subtotal = decimal.Zero
	for _, l := range s.lines {
		t.Subtotal = t.Subtotal.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		t.ItemCount += l.Quantity
	}

	t.CODFee = decimal.Zero
	if len(s.lines) > 0 && t.Subtotal.LessThan(s.cfg.FreeDeliveryAbove) {
		t.CODFee = s.cfg.CODFee
	}
	t.Total = t.Subtotal.Add(t.CODFee)

	t.Discount = decimal.Zero
	if s.coupon != nil {
		t.Discount = s.coupon.Discount
	}
	return t
}

func (s *Store) ItemCount() int {
	return s.Totals().ItemCount
}

func (s *Store) IsInCart(key domain.LineKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(key) >= 0
}

// CheckoutSnapshot maps lines to the shape the order-creation endpoint
// expects. Prices are dropped; the server re-prices at order time.
func (s *Store) CheckoutSnapshot() []domain.OrderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.OrderItem, 0, len(s.lines))
	for _, l := range s.lines {
		items = append(items, domain.OrderItem{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Color:     l.Color,
		})
	}
	return items
}

// ApplyCoupon records a server-validated discount for the current session.
func (s *Store) ApplyCoupon(c domain.AppliedCoupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = &c
}

// Coupon returns the applied coupon, or nil.
func (s *Store) Coupon() *domain.AppliedCoupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.coupon == nil {
		return nil
	}
	c := *s.coupon
	return &c
}

// RemoveCoupon drops the applied coupon without touching the lines.
func (s *Store) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = nil
}

func (s *Store) indexOf(key domain.LineKey) int {
	for i, l := range s.lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}

// dropCouponLocked invalidates a previously validated discount: the server
// computed it against cart contents that no longer exist.
func (s *Store) dropCouponLocked() {
	if s.coupon != nil {
		s.logger.Info("coupon invalidated by cart change", zap.String("code", s.coupon.Code))
		s.coupon = nil
	}
}

func (s *Store) notifyLocked() {
	lines := append([]domain.CartLine(nil), s.lines...)
	for _, fn := range s.subs {
		fn(lines)
	}
}

package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazaargo/storefront/internal/api"
	"github.com/bazaargo/storefront/internal/cart"
	"github.com/bazaargo/storefront/internal/domain"
)

type backendState struct {
	couponRequests []api.ValidateCouponRequest
	orderRequests  []api.CreateOrderRequest
	rejectCoupon   bool
	failOrder      bool
}

func testBackend(t *testing.T, state *backendState) *api.Client {
	t.Helper()
	r := chi.NewRouter()
	r.Post("/coupons/validate", func(w http.ResponseWriter, req *http.Request) {
		var body api.ValidateCouponRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		state.couponRequests = append(state.couponRequests, body)
		if state.rejectCoupon {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(api.ErrorResponse{Error: "coupon expired"})
			return
		}
		json.NewEncoder(w).Encode(api.CouponResult{Code: body.Code, Discount: decimal.NewFromInt(30)})
	})
	r.Post("/orders", func(w http.ResponseWriter, req *http.Request) {
		var body api.CreateOrderRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		state.orderRequests = append(state.orderRequests, body)
		if state.failOrder {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(api.ErrorResponse{Error: "db down"})
			return
		}
		json.NewEncoder(w).Encode(domain.Order{ID: 42, Status: domain.OrderPending})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return api.NewClient(api.Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
}

func filledCart(t *testing.T) *cart.Store {
	t.Helper()
	s := cart.NewStore(cart.DefaultConfig(), nil)
	p := domain.Product{ID: 1, Price: decimal.NewFromInt(300), Stock: 10}
	require.NoError(t, s.AddItem(p, 2, "M", "red", ""))
	return s
}

func TestApplyCoupon_RecordsDiscount(t *testing.T) {
	state := &backendState{}
	cartStore := filledCart(t)
	sut := NewService(cartStore, testBackend(t, state), nil)

	applied, err := sut.ApplyCoupon(context.Background(), "SAVE30")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(applied.Discount))
	require.NotNil(t, cartStore.Coupon())

	require.Len(t, state.couponRequests, 1)
	assert.Equal(t, "SAVE30", state.couponRequests[0].Code)
	assert.True(t, decimal.NewFromInt(600).Equal(state.couponRequests[0].Subtotal))
	require.Len(t, state.couponRequests[0].Items, 1)
}

func TestApplyCoupon_EmptyCart(t *testing.T) {
	sut := NewService(cart.NewStore(cart.DefaultConfig(), nil), testBackend(t, &backendState{}), nil)
	_, err := sut.ApplyCoupon(context.Background(), "SAVE30")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestApplyCoupon_Rejected(t *testing.T) {
	cartStore := filledCart(t)
	sut := NewService(cartStore, testBackend(t, &backendState{rejectCoupon: true}), nil)

	_, err := sut.ApplyCoupon(context.Background(), "OLD")
	require.ErrorContains(t, err, "coupon expired")
	assert.Nil(t, cartStore.Coupon())
}

func TestPlaceOrder_ClearsCart(t *testing.T) {
	state := &backendState{}
	cartStore := filledCart(t)
	sut := NewService(cartStore, testBackend(t, state), nil)

	_, err := sut.ApplyCoupon(context.Background(), "SAVE30")
	require.NoError(t, err)

	order, err := sut.PlaceOrder(context.Background(), "12 Market Lane")
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, 0, cartStore.ItemCount())

	require.Len(t, state.orderRequests, 1)
	got := state.orderRequests[0]
	assert.Equal(t, "SAVE30", got.CouponCode)
	assert.Equal(t, "12 Market Lane", got.Address)
	assert.Equal(t, "cod", got.PaymentMethod)
	assert.NotEmpty(t, got.IdempotencyKey)
	require.Len(t, got.Items, 1)
	assert.Equal(t, domain.OrderItem{ProductID: 1, Quantity: 2, Size: "M", Color: "red"}, got.Items[0])
}

func TestPlaceOrderWithCoupon_ValidatesAndSubmitsInOneCall(t *testing.T) {
	state := &backendState{}
	// Fresh service with no prior ApplyCoupon call, as after a restart that
	// restored only the persisted lines.
	cartStore := filledCart(t)
	require.Nil(t, cartStore.Coupon())
	sut := NewService(cartStore, testBackend(t, state), nil)

	order, err := sut.PlaceOrderWithCoupon(context.Background(), "12 Market Lane", "SAVE30")
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Equal(t, 0, cartStore.ItemCount())

	require.Len(t, state.couponRequests, 1)
	assert.Equal(t, "SAVE30", state.couponRequests[0].Code)
	require.Len(t, state.orderRequests, 1)
	assert.Equal(t, "SAVE30", state.orderRequests[0].CouponCode)
}

func TestPlaceOrderWithCoupon_EmptyCodeSkipsValidation(t *testing.T) {
	state := &backendState{}
	sut := NewService(filledCart(t), testBackend(t, state), nil)

	_, err := sut.PlaceOrderWithCoupon(context.Background(), "12 Market Lane", "")
	require.NoError(t, err)
	assert.Empty(t, state.couponRequests)
	require.Len(t, state.orderRequests, 1)
	assert.Empty(t, state.orderRequests[0].CouponCode)
}

func TestPlaceOrderWithCoupon_RejectedCouponKeepsCart(t *testing.T) {
	state := &backendState{rejectCoupon: true}
	cartStore := filledCart(t)
	sut := NewService(cartStore, testBackend(t, state), nil)

	_, err := sut.PlaceOrderWithCoupon(context.Background(), "12 Market Lane", "OLD")
	require.ErrorContains(t, err, "coupon expired")
	assert.Empty(t, state.orderRequests, "no order may be submitted after a rejected coupon")
	assert.Equal(t, 2, cartStore.ItemCount())
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	sut := NewService(cart.NewStore(cart.DefaultConfig(), nil), testBackend(t, &backendState{}), nil)
	_, err := sut.PlaceOrder(context.Background(), "addr")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_BackendFailureKeepsCart(t *testing.T) {
	cartStore := filledCart(t)
	sut := NewService(cartStore, testBackend(t, &backendState{failOrder: true}), nil)

	_, err := sut.PlaceOrder(context.Background(), "addr")
	require.Error(t, err)
	assert.Equal(t, 2, cartStore.ItemCount(), "failed order must not clear the cart")
}

package checkout

import (
	"context"
	"errors"
	"testing"

	"comanda/addresses"
	"comanda/cart"
	"comanda/models"
)

func newTestService(store *MemoryOrderStore) (*Service, *cart.MemoryStore) {
	carts := cart.NewMemoryStore()
	addrs := addresses.NewMemoryLookup(
		models.Address{AddressID: "adr1", UserID: "u1"},
		models.Address{AddressID: "adr2", UserID: "someone-else"},
	)
	return NewService(carts, addrs, store), carts
}

func seedCart(t *testing.T, carts *cart.MemoryStore, userID string) models.Cart {
	t.Helper()
	c := models.Cart{UserID: userID}
	c.Add(models.CartLine{ProductID: "p1", Name: "Burger", UnitPrice: 10.00, Quantity: 2})
	if err := carts.Save(context.Background(), c); err != nil {
		t.Fatalf("seeding cart: %v", err)
	}
	return c
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, _ := newTestService(NewMemoryOrderStore())

	_, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryPickup,
		PaymentMethod:  models.PaymentCash,
	})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlaceOrderPickup(t *testing.T) {
	store := NewMemoryOrderStore()
	svc, carts := newTestService(store)
	seedCart(t, carts, "u1")

	order, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryPickup,
		AddressID:      "adr1", // ignored for pickup
		PaymentMethod:  models.PaymentCash,
	})
	if err != nil {
		t.Fatalf("PlaceOrder error: %v", err)
	}

	if order.Status != models.OrderPending {
		t.Errorf("expected pending order, got %s", order.Status)
	}
	if order.Total != 20.00 {
		t.Errorf("expected total 20.00, got %v", order.Total)
	}
	if order.AddressID != "" {
		t.Errorf("pickup order carries address %q", order.AddressID)
	}

	if len(store.Orders) != 1 || len(store.Items) != 1 || len(store.Payments) != 1 {
		t.Fatalf("expected 1 order / 1 item / 1 payment, got %d/%d/%d",
			len(store.Orders), len(store.Items), len(store.Payments))
	}

	item := store.Items[0]
	if item.OrderID != order.OrderID || item.Quantity != 2 || item.Subtotal != 20.00 {
		t.Errorf("unexpected order item: %+v", item)
	}

	payment := store.Payments[0]
	if payment.OrderID != order.OrderID {
		t.Errorf("payment bound to %q, want %q", payment.OrderID, order.OrderID)
	}
	if payment.Status != models.PaymentPending {
		t.Errorf("expected pending payment, got %s", payment.Status)
	}
	if payment.AmountPaid != order.Total {
		t.Errorf("payment amount %v, want %v", payment.AmountPaid, order.Total)
	}

	after, err := carts.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("loading cart: %v", err)
	}
	if !after.IsEmpty() {
		t.Error("cart not cleared after successful checkout")
	}
}

func TestPlaceOrderDeliveryRequiresAddress(t *testing.T) {
	svc, carts := newTestService(NewMemoryOrderStore())
	seedCart(t, carts, "u1")

	_, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryCourier,
		PaymentMethod:  models.PaymentPix,
	})
	if !errors.Is(err, ErrAddressRequired) {
		t.Fatalf("expected ErrAddressRequired, got %v", err)
	}
}

func TestPlaceOrderRejectsForeignAddress(t *testing.T) {
	store := NewMemoryOrderStore()
	svc, carts := newTestService(store)
	seedCart(t, carts, "u1")

	_, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryCourier,
		AddressID:      "adr2",
		PaymentMethod:  models.PaymentPix,
	})
	if !errors.Is(err, ErrAddressNotOwned) {
		t.Fatalf("expected ErrAddressNotOwned, got %v", err)
	}
	if len(store.Orders) != 0 {
		t.Error("order persisted despite validation failure")
	}
}

func TestPlaceOrderRejectsBadMethods(t *testing.T) {
	svc, carts := newTestService(NewMemoryOrderStore())
	seedCart(t, carts, "u1")

	_, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: "drone",
		PaymentMethod:  models.PaymentPix,
	})
	if !errors.Is(err, ErrInvalidDeliveryMethod) {
		t.Fatalf("expected ErrInvalidDeliveryMethod, got %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryPickup,
		PaymentMethod:  "barter",
	})
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	store := NewMemoryOrderStore()
	store.FailPayment = errors.New("write conflict")
	svc, carts := newTestService(store)
	seedCart(t, carts, "u1")

	_, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryPickup,
		PaymentMethod:  models.PaymentCard,
	})
	if err == nil {
		t.Fatal("expected error from failing store")
	}

	if len(store.Orders) != 0 || len(store.Items) != 0 || len(store.Payments) != 0 {
		t.Errorf("partial write survived failure: %d/%d/%d",
			len(store.Orders), len(store.Items), len(store.Payments))
	}

	after, err := carts.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("loading cart: %v", err)
	}
	if after.IsEmpty() {
		t.Error("cart cleared despite failed checkout")
	}
	if after.Total() != 20.00 {
		t.Errorf("cart changed by failed checkout: total %v", after.Total())
	}
}

func TestPlaceOrderChargesCartSnapshotPrice(t *testing.T) {
	store := NewMemoryOrderStore()
	svc, carts := newTestService(store)
	seedCart(t, carts, "u1")

	// Catalog price changes after the item entered the cart do not affect the
	// charge; the cart snapshot is what the user saw and accepted.
	order, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryPickup,
		PaymentMethod:  models.PaymentPix,
	})
	if err != nil {
		t.Fatalf("PlaceOrder error: %v", err)
	}
	if store.Items[0].UnitPrice != 10.00 {
		t.Errorf("charged %v, want snapshot price 10.00", store.Items[0].UnitPrice)
	}
	if order.Total != 20.00 {
		t.Errorf("order total %v, want 20.00", order.Total)
	}
}

type failingClearStore struct {
	*cart.MemoryStore
}

func (s failingClearStore) Clear(_ context.Context, _ string) error {
	return errors.New("redis down")
}

func TestPlaceOrderSurvivesFailedCartClear(t *testing.T) {
	store := NewMemoryOrderStore()
	carts := cart.NewMemoryStore()
	addrs := addresses.NewMemoryLookup()
	svc := NewService(failingClearStore{carts}, addrs, store)
	seedCart(t, carts, "u1")

	// The order committed; a stuck stale cart is a nuisance, not a failure.
	order, err := svc.PlaceOrder(context.Background(), "u1", Request{
		DeliveryMethod: models.DeliveryPickup,
		PaymentMethod:  models.PaymentCash,
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed on cart-clear error: %v", err)
	}
	if len(store.Orders) != 1 {
		t.Fatalf("expected committed order, got %d", len(store.Orders))
	}
	if order.Status != models.OrderPending {
		t.Errorf("order status %s, want pending", order.Status)
	}
}

func TestIsValidationError(t *testing.T) {
	for _, err := range []error{
		ErrEmptyCart, ErrInvalidDeliveryMethod, ErrInvalidPaymentMethod,
		ErrAddressRequired, ErrAddressNotOwned,
	} {
		if !IsValidationError(err) {
			t.Errorf("%v not recognized as validation error", err)
		}
	}
	if IsValidationError(errors.New("boom")) {
		t.Error("arbitrary error classified as validation error")
	}
}

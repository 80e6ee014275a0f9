package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"comanda/addresses"
	"comanda/cart"
	"comanda/models"
	"comanda/utils"
)

// Validation failures. Each aborts checkout before any write.
var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrAddressRequired       = errors.New("delivery orders require an address")
	ErrAddressNotOwned       = errors.New("address not found for this user")
)

// Request is the checkout submission for the current server-authoritative
// cart. AddressID is required iff DeliveryMethod is delivery.
type Request struct {
	DeliveryMethod models.DeliveryMethod `json:"deliveryMethod"`
	AddressID      string                `json:"addressId,omitempty"`
	PaymentMethod  models.PaymentMethod  `json:"paymentMethod"`
	Notes          string                `json:"notes,omitempty"`
}

// Service runs the order placement transaction: it consumes the
// server-authoritative cart plus delivery/payment choices and persists the
// Order, its OrderItems and the Payment atomically, clearing the cart only
// after a successful commit.
type Service struct {
	Carts     cart.Store
	Addresses addresses.Lookup
	Orders    OrderStore
}

func NewService(carts cart.Store, addrs addresses.Lookup, orders OrderStore) *Service {
	return &Service{Carts: carts, Addresses: addrs, Orders: orders}
}

func (s *Service) validate(ctx context.Context, userID string, req Request, c models.Cart) error {
	if c.IsEmpty() {
		return ErrEmptyCart
	}

	switch req.DeliveryMethod {
	case models.DeliveryPickup, models.DeliveryCourier:
	default:
		return ErrInvalidDeliveryMethod
	}

	switch req.PaymentMethod {
	case models.PaymentPix, models.PaymentCard, models.PaymentCash:
	default:
		return ErrInvalidPaymentMethod
	}

	if req.DeliveryMethod == models.DeliveryCourier {
		if req.AddressID == "" {
			return ErrAddressRequired
		}
		if _, err := s.Addresses.GetAddress(ctx, req.AddressID, userID); err != nil {
			if err == addresses.ErrAddressNotFound {
				return ErrAddressNotOwned
			}
			return err
		}
	}

	return nil
}

// PlaceOrder validates the request, snapshots the cart into Order/OrderItems/
// Payment, persists the three atomically and clears the cart. On any failure
// nothing is persisted and the cart is untouched, so the user can retry.
func (s *Service) PlaceOrder(ctx context.Context, userID string, req Request) (models.Order, error) {
	c, err := s.Carts.Load(ctx, userID)
	if err != nil {
		return models.Order{}, err
	}

	if err := s.validate(ctx, userID, req, c); err != nil {
		return models.Order{}, err
	}

	addressID := req.AddressID
	if req.DeliveryMethod == models.DeliveryPickup {
		// Pickup orders never carry an address.
		addressID = ""
	}

	now := time.Now()
	order := models.Order{
		OrderID:        "ORD" + utils.GenerateRandomString(14),
		UserID:         userID,
		Status:         models.OrderPending,
		DeliveryMethod: req.DeliveryMethod,
		AddressID:      addressID,
		Total:          c.Total(),
		Notes:          req.Notes,
		CreatedAt:      now,
	}

	items := make([]models.OrderItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		// The price charged is the cart snapshot, not a fresh catalog read.
		items = append(items, models.OrderItem{
			OrderID:   order.OrderID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		})
	}

	payment := models.Payment{
		PaymentID:  "PAY" + utils.GenerateRandomString(14),
		OrderID:    order.OrderID,
		Method:     req.PaymentMethod,
		Status:     models.PaymentPending,
		AmountPaid: order.Total,
		CreatedAt:  now,
	}

	if err := s.Orders.CreateOrder(ctx, order, items, payment); err != nil {
		return models.Order{}, err
	}

	// Only after a successful commit. A failed clear leaves a stale cart, not
	// a broken order, so it is logged and not surfaced.
	if err := s.Carts.Clear(ctx, userID); err != nil {
		log.Printf("PlaceOrder: order %s committed but cart for %s not cleared: %v", order.OrderID, userID, err)
	}

	return order, nil
}

// IsValidationError reports whether err is one of the pre-write rejections.
func IsValidationError(err error) bool {
	switch err {
	case ErrEmptyCart, ErrInvalidDeliveryMethod, ErrInvalidPaymentMethod,
		ErrAddressRequired, ErrAddressNotOwned:
		return true
	}
	return false
}

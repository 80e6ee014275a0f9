package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPreparing  OrderStatus = "preparing"
	OrderReady      OrderStatus = "ready"
	OrderDispatched OrderStatus = "dispatched"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "delivery"
)

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentDeclined PaymentStatus = "declined"
	PaymentRefunded PaymentStatus = "refunded"
)

// Order is the durable record created by checkout. Status and the phase
// timestamps are the only fields staff mutate afterwards; orders are never
// deleted.
type Order struct {
	OrderID        string         `json:"orderId" bson:"orderid"`
	UserID         string         `json:"userId" bson:"userid"`
	Status         OrderStatus    `json:"status" bson:"status"`
	DeliveryMethod DeliveryMethod `json:"deliveryMethod" bson:"deliveryMethod"`
	AddressID      string         `json:"addressId,omitempty" bson:"addressId,omitempty"`
	Total          float64        `json:"total" bson:"total"`
	Notes          string         `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
	PreparingAt    *time.Time     `json:"preparingAt,omitempty" bson:"preparingAt,omitempty"`
	ReadyAt        *time.Time     `json:"readyAt,omitempty" bson:"readyAt,omitempty"`
	DispatchedAt   *time.Time     `json:"dispatchedAt,omitempty" bson:"dispatchedAt,omitempty"`
	DeliveredAt    *time.Time     `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
}

// OrderItem is an immutable line of an order. UnitPrice is the cart snapshot
// price, not the catalog price at commit time.
type OrderItem struct {
	OrderID   string  `json:"orderId" bson:"orderid"`
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice"`
	Subtotal  float64 `json:"subtotal" bson:"subtotal"`
}

// Payment tracks settlement for exactly one order, independent of the order's
// fulfillment status.
type Payment struct {
	PaymentID  string        `json:"paymentId" bson:"paymentid"`
	OrderID    string        `json:"orderId" bson:"orderid"`
	Method     PaymentMethod `json:"method" bson:"method"`
	Status     PaymentStatus `json:"status" bson:"status"`
	AmountPaid float64       `json:"amountPaid" bson:"amountPaid"`
	PaidAt     *time.Time    `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
}

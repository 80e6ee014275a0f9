package orders

import (
	"errors"
	"fmt"
	"time"

	"comanda/models"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// orderTransitions is the allowed-transition table for fulfillment. Forward
// progression only; ready→delivered covers pickup orders handed over at the
// counter; delivered and cancelled are terminal.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing:  {models.OrderReady, models.OrderCancelled},
	models.OrderReady:      {models.OrderDispatched, models.OrderDelivered, models.OrderCancelled},
	models.OrderDispatched: {models.OrderDelivered},
	models.OrderDelivered:  {},
	models.OrderCancelled:  {},
}

// paymentTransitions: a declined payment may be retried into approved; only
// approved payments can be refunded; refunded is terminal.
var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending:  {models.PaymentApproved, models.PaymentDeclined},
	models.PaymentApproved: {models.PaymentRefunded},
	models.PaymentDeclined: {models.PaymentApproved},
	models.PaymentRefunded: {},
}

func CanTransitionOrder(from, to models.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func CanTransitionPayment(from, to models.PaymentStatus) bool {
	for _, s := range paymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyOrderStatus advances the order and stamps the phase-entry timestamp,
// but only when it is still unset: re-entering a phase never overwrites the
// first recorded time.
func ApplyOrderStatus(o *models.Order, to models.OrderStatus, now time.Time) error {
	if !CanTransitionOrder(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	o.Status = to
	switch to {
	case models.OrderPreparing:
		if o.PreparingAt == nil {
			o.PreparingAt = &now
		}
	case models.OrderReady:
		if o.ReadyAt == nil {
			o.ReadyAt = &now
		}
	case models.OrderDispatched:
		if o.DispatchedAt == nil {
			o.DispatchedAt = &now
		}
	case models.OrderDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
	return nil
}

// ApplyPaymentStatus moves the payment and stamps paidAt on approval. Moving
// away from approved keeps paidAt: the record of when money arrived survives
// a refund.
func ApplyPaymentStatus(p *models.Payment, to models.PaymentStatus, now time.Time) error {
	if !CanTransitionPayment(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}

	p.Status = to
	if to == models.PaymentApproved && p.PaidAt == nil {
		p.PaidAt = &now
	}
	return nil
}

// ValidOrderStatus reports whether s names a known fulfillment status.
func ValidOrderStatus(s models.OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

func ValidPaymentStatus(s models.PaymentStatus) bool {
	_, ok := paymentTransitions[s]
	return ok
}

package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"comanda/rdx"
)

const orderEventsChannel = "order-events"

// OrderEvent is fanned out to staff dashboards whenever an order is placed or
// its status changes.
type OrderEvent struct {
	Type      string  `json:"type"` // "order-placed", "order-status", "payment-status"
	OrderID   string  `json:"orderId"`
	UserID    string  `json:"userId,omitempty"`
	Status    string  `json:"status,omitempty"`
	Total     float64 `json:"total,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Emit publishes an order event to Redis. Failures are logged, never fatal:
// the event stream is observational, not part of the order's durability.
func Emit(ctx context.Context, evt OrderEvent) {
	evt.Timestamp = time.Now().Unix()

	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[Emit] failed to marshal order event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, orderEventsChannel, data).Err(); err != nil {
		log.Printf("[Emit] failed to publish order event: %v", err)
	}
}

// Subscribe returns a channel of decoded order events. The returned cancel
// func closes the underlying subscription.
func Subscribe(ctx context.Context) (<-chan OrderEvent, func()) {
	sub := rdx.Conn.Subscribe(ctx, orderEventsChannel)
	out := make(chan OrderEvent, 16)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var evt OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("[Subscribe] bad order event payload: %v", err)
				continue
			}
			out <- evt
		}
	}()

	return out, func() { sub.Close() }
}

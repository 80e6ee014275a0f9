package models

import "time"

// Quantity bounds for a single cart line. Every write path clamps into this
// range, whatever the client sent.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// ClampQuantity forces q into [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// CartLine is one product inside a cart. Name and UnitPrice are snapshots
// taken from the catalog when the line entered the cart; later catalog edits
// do not touch them.
type CartLine struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	UnitPrice float64 `json:"unitPrice" bson:"unitPrice"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart is the server-authoritative cart for one user. Lines are ordered and
// unique per product.
type Cart struct {
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Add merges the line into the cart: an existing product gets its quantity
// incremented, a new product is appended. The resulting quantity is clamped.
func (c *Cart) Add(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity = ClampQuantity(c.Lines[i].Quantity + line.Quantity)
			return
		}
	}
	line.Quantity = ClampQuantity(line.Quantity)
	c.Lines = append(c.Lines, line)
}

// Remove deletes the line for productID; no-op when absent.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the quantity of an existing line, clamped into range.
// Returns false when the product is not in the cart.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = ClampQuantity(quantity)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total sums unitPrice × quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// ClientCartItem is one line of the client-held durable cart. Only the
// product id and quantity are ever trusted; price and name are re-resolved
// against the catalog during synchronization.
type ClientCartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ClientCartSnapshot is the versioned payload the client persists between
// page loads and submits for synchronization.
type ClientCartSnapshot struct {
	Items     []ClientCartItem `json:"items"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

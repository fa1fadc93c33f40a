package models

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// MaxLineQuantity caps the quantity of a single line. Additions saturate at
// the cap instead of overflowing.
const MaxLineQuantity = 999

// ErrAmountOverflow is returned by Validate when a line subtotal or the cart
// total does not fit in an Amount
var ErrAmountOverflow = errors.New("amount overflows")

// OrderLine is a catalog item captured at add-time plus the requested quantity
type OrderLine struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       Amount   `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
	Quantity    int      `json:"quantity"`
}

// Subtotal returns price × quantity for the line
func (l OrderLine) Subtotal() Amount {
	return l.Price * Amount(l.Quantity)
}

// NewOrderLine denormalizes a catalog item into a line of the given quantity
func NewOrderLine(item CatalogItem, quantity int) OrderLine {
	return OrderLine{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Image:       item.Image,
		Category:    item.Category,
		Quantity:    quantity,
	}
}

// Cart is the current unsubmitted order. Lines keep insertion order.
// Transition methods never modify the receiver.
type Cart struct {
	Lines []OrderLine `json:"lines"`
}

// EmptyCart returns a cart with no lines
func EmptyCart() Cart {
	return Cart{Lines: []OrderLine{}}
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for id, if present
func (c Cart) Line(id int) (OrderLine, bool) {
	i := c.index(id)
	if i < 0 {
		return OrderLine{}, false
	}
	return c.Lines[i], true
}

// Count returns the number of units across all lines
func (c Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// WithItem increments the line for item.ID or appends a new line of quantity 1
func (c Cart) WithItem(item CatalogItem) Cart {
	next := c.clone()
	if i := next.index(item.ID); i >= 0 {
		next.Lines[i].Quantity = addQuantity(next.Lines[i].Quantity, 1)
		return next
	}
	next.Lines = append(next.Lines, NewOrderLine(item, 1))
	return next
}

// WithDelta adds delta to the quantity of line id, clamping to
// [0, MaxLineQuantity]. A line that reaches zero is dropped. Unknown ids are a no-op.
func (c Cart) WithDelta(id, delta int) Cart {
	i := c.index(id)
	if i < 0 {
		return c.clone()
	}

	qty := addQuantity(c.Lines[i].Quantity, delta)
	if qty == 0 {
		return c.Without(id)
	}

	next := c.clone()
	next.Lines[i].Quantity = qty
	return next
}

// Without drops line id if present
func (c Cart) Without(id int) Cart {
	next := EmptyCart()
	for _, l := range c.Lines {
		if l.ID != id {
			next.Lines = append(next.Lines, l)
		}
	}
	return next
}

// Equal reports whether both carts hold the same lines in the same order
func (c Cart) Equal(other Cart) bool {
	return slices.Equal(c.Lines, other.Lines)
}

// Validate checks the cart invariants: unique ids, quantity in
// [1, MaxLineQuantity], non-negative prices, a known category and a total
// that fits in an Amount
func (c Cart) Validate() error {
	seen := make(map[int]struct{}, len(c.Lines))
	var total Amount
	for i, l := range c.Lines {
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("lines[%d]: duplicate id %d", i, l.ID)
		}
		seen[l.ID] = struct{}{}

		if l.Quantity < 1 || l.Quantity > MaxLineQuantity {
			return fmt.Errorf("lines[%d]: quantity must be between 1 and %d", i, MaxLineQuantity)
		}
		if l.Price < 0 {
			return fmt.Errorf("lines[%d]: price must not be negative", i)
		}
		if l.Price > Amount(math.MaxInt64)/Amount(l.Quantity) {
			return fmt.Errorf("lines[%d]: subtotal: %w", i, ErrAmountOverflow)
		}
		if total > Amount(math.MaxInt64)-l.Subtotal() {
			return fmt.Errorf("lines[%d]: total: %w", i, ErrAmountOverflow)
		}
		total += l.Subtotal()
		if _, err := ParseCategory(string(l.Category)); err != nil {
			return fmt.Errorf("lines[%d]: %w", i, err)
		}
	}
	return nil
}

// Total sums price × quantity over all lines; zero for an empty cart
func Total(c Cart) Amount {
	var total Amount
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// addQuantity returns q+delta clamped to [0, MaxLineQuantity] without overflowing
func addQuantity(q, delta int) int {
	q = min(max(q, 0), MaxLineQuantity)
	switch {
	case delta > MaxLineQuantity-q:
		return MaxLineQuantity
	case delta < -q:
		return 0
	default:
		return q + delta
	}
}

func (c Cart) index(id int) int {
	return slices.IndexFunc(c.Lines, func(l OrderLine) bool { return l.ID == id })
}

func (c Cart) clone() Cart {
	next := Cart{Lines: make([]OrderLine, len(c.Lines))}
	copy(next.Lines, c.Lines)
	return next
}

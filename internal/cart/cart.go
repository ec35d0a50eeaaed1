// Package cart implements the client-session cart: line merging by identity,
// the one-restaurant invariant, and a Redis-backed session store. Cart prices
// are display quotes only; the authoritative total is computed at submission.
package cart

import (
	"time"

	"quickbites/internal/models"
)

// Cart is the per-session aggregate of pending line items. All items belong
// to the same restaurant; adding an item from a different restaurant starts
// a new cart.
type Cart struct {
	RestaurantID string            `json:"restaurant_id,omitempty"`
	Items        []models.LineItem `json:"items"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Items: []models.LineItem{}}
}

// IsEmpty reports whether the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AddItem adds one line to the cart. A line with the same identity (item,
// customizations, instructions) absorbs the quantity instead of duplicating.
// An item from a different restaurant replaces the whole cart.
func (c *Cart) AddItem(restaurantID string, item models.LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	item.LineTotal = item.ComputeLineTotal()

	if c.RestaurantID != "" && c.RestaurantID != restaurantID {
		c.Items = c.Items[:0]
	}
	c.RestaurantID = restaurantID

	key := item.IdentityKey()
	for i := range c.Items {
		if c.Items[i].IdentityKey() == key {
			c.Items[i].Quantity += item.Quantity
			c.Items[i].LineTotal = c.Items[i].ComputeLineTotal()
			c.UpdatedAt = time.Now().UTC()
			return
		}
	}

	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now().UTC()
}

// UpdateQuantity sets the quantity of the line with the given identity key.
// A quantity of zero or below removes the line. Returns false when no line
// matches.
func (c *Cart) UpdateQuantity(identityKey string, quantity int) bool {
	for i := range c.Items {
		if c.Items[i].IdentityKey() != identityKey {
			continue
		}
		if quantity <= 0 {
			c.removeAt(i)
		} else {
			c.Items[i].Quantity = quantity
			c.Items[i].LineTotal = c.Items[i].ComputeLineTotal()
		}
		c.UpdatedAt = time.Now().UTC()
		return true
	}
	return false
}

// RemoveLine removes the line with the given identity key. Returns false
// when no line matches.
func (c *Cart) RemoveLine(identityKey string) bool {
	for i := range c.Items {
		if c.Items[i].IdentityKey() == identityKey {
			c.removeAt(i)
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Clear empties the cart and resets the restaurant binding
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.RestaurantID = ""
	c.UpdatedAt = time.Now().UTC()
}

// Quote returns the running cart total without delivery fee or tax
func (c *Cart) Quote() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal
	}
	return total
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	// removing the last line unbinds the restaurant
	if len(c.Items) == 0 {
		c.RestaurantID = ""
	}
}

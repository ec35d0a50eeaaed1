package models

import (
	"regexp"
	"strings"

	"quickbites/internal/apperr"
)

// AddItemRequest asks the cart reconciler to add one unit of an item
type AddItemRequest struct {
	RestaurantID        string         `json:"restaurant_id"`
	ItemID              string         `json:"item_id"`
	Customizations      Customizations `json:"customizations"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
}

const maxAddonsPerLine = 20

// Validate checks the add-item request. Add-on prices are display hints at
// best; the canonical price is resolved from the catalog, but obviously
// malformed selections are rejected up front.
func (r *AddItemRequest) Validate() error {
	if r.RestaurantID == "" {
		return apperr.Validation("restaurant_id", "restaurant id is required")
	}
	if r.ItemID == "" {
		return apperr.Validation("item_id", "item id is required")
	}
	if len(r.SpecialInstructions) > 500 {
		return apperr.Validation("special_instructions", "must not exceed 500 characters")
	}
	if len(r.Customizations.SelectedAddons) > maxAddonsPerLine {
		return apperr.Validation("customizations.selected_addons", "too many add-ons")
	}
	for _, a := range r.Customizations.SelectedAddons {
		if a.ID == "" {
			return apperr.Validation("customizations.selected_addons", "add-on id is required")
		}
		if a.Price < 0 {
			return apperr.Validation("customizations.selected_addons", "add-on price must not be negative")
		}
		if len(a.Name) > 255 {
			return apperr.Validation("customizations.selected_addons", "add-on name is too long")
		}
	}
	return nil
}

// UpdateQuantityRequest sets a cart line's quantity; zero or below removes it
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SubmitOrderRequest turns the session's cart into an order
type SubmitOrderRequest struct {
	Delivery      DeliveryDetails `json:"delivery"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Card          *CardDetails    `json:"card,omitempty"`
}

var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)

// Validate checks the submission request
func (r *SubmitOrderRequest) Validate() error {
	if err := r.Delivery.Validate(); err != nil {
		return err
	}
	if !r.PaymentMethod.IsValid() {
		return apperr.Validation("payment_method", "must be one of: cash, card")
	}
	if r.PaymentMethod == PaymentCard {
		if r.Card == nil {
			return apperr.Validation("card", "card details are required for card payments")
		}
		if len(r.Card.Last4) != 4 {
			return apperr.Validation("card.last4", "must be exactly 4 digits")
		}
	}
	return nil
}

// Validate checks the delivery details
func (d *DeliveryDetails) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"delivery.name", d.Name},
		{"delivery.phone", d.Phone},
		{"delivery.street", d.Street},
		{"delivery.city", d.City},
		{"delivery.state", d.State},
		{"delivery.zip", d.Zip},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return apperr.Validation(f.field, "is required")
		}
	}
	if !phonePattern.MatchString(d.Phone) {
		return apperr.Validation("delivery.phone", "is not a valid phone number")
	}
	return nil
}

// AdvanceStatusRequest moves an order to the requested fulfillment state
type AdvanceStatusRequest struct {
	Status OrderStatus `json:"status"`
	Reason string      `json:"reason,omitempty"`
}

// Validate checks the status advance request
func (r *AdvanceStatusRequest) Validate() error {
	if !r.Status.IsValid() {
		return apperr.Validation("status", "unknown status")
	}
	return nil
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// SubmitOrderResponse is returned after a successful submission
type SubmitOrderResponse struct {
	OrderID                  string       `json:"order_id"`
	Status                   OrderStatus  `json:"status"`
	Summary                  OrderSummary `json:"summary"`
	EstimatedDeliveryMinutes int          `json:"estimated_delivery_minutes"`
}

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Addon is a paid extra attached to a line item
type Addon struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Customizations holds the option-group selections and paid add-ons of a
// line item.
type Customizations struct {
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	SelectedAddons  []Addon           `json:"selected_addons,omitempty"`
}

// LineItem is one distinct cart or order entry. Prices are in integer minor
// currency units. On an order the fields are a frozen snapshot taken at
// submission time.
type LineItem struct {
	ItemID              string         `json:"item_id"`
	Name                string         `json:"name"`
	UnitPrice           int64          `json:"unit_price"`
	Quantity            int            `json:"quantity"`
	Customizations      Customizations `json:"customizations"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	LineTotal           int64          `json:"line_total"`
}

// AddonTotal returns the summed price of the selected add-ons
func (li *LineItem) AddonTotal() int64 {
	var total int64
	for _, a := range li.Customizations.SelectedAddons {
		total += a.Price
	}
	return total
}

// ComputeLineTotal recalculates (unit price + add-ons) x quantity
func (li *LineItem) ComputeLineTotal() int64 {
	return (li.UnitPrice + li.AddonTotal()) * int64(li.Quantity)
}

// IdentityKey returns the merge identity of the line: two additions with the
// same item, the same customizations and the same instructions land on the
// same line. The key is stable across map iteration order and safe to use in
// URLs.
func (li *LineItem) IdentityKey() string {
	var b strings.Builder
	b.WriteString(li.ItemID)
	b.WriteByte('|')

	keys := make([]string, 0, len(li.Customizations.SelectedOptions))
	for k := range li.Customizations.SelectedOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(li.Customizations.SelectedOptions[k])
		b.WriteByte(';')
	}
	b.WriteByte('|')

	addons := make([]Addon, len(li.Customizations.SelectedAddons))
	copy(addons, li.Customizations.SelectedAddons)
	sort.Slice(addons, func(i, j int) bool { return addons[i].ID < addons[j].ID })
	for _, a := range addons {
		b.WriteString(a.ID)
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(a.Price, 10))
		b.WriteByte(';')
	}
	b.WriteByte('|')
	b.WriteString(li.SpecialInstructions)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

// OrderSummary is the itemized money breakdown of an order. It is always
// recomputed server-side; any client-submitted summary is discarded.
type OrderSummary struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`
}

// DeliveryDetails is where and to whom an order ships
type DeliveryDetails struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Instructions string `json:"instructions,omitempty"`
}

// PaymentMethod is the declared payment method of an order
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentCard
}

// CardDetails carries card metadata only. The full card number never enters
// the system.
type CardDetails struct {
	Last4  string `json:"last4"`
	Brand  string `json:"brand"`
	Expiry string `json:"expiry"`
}

// StatusChange is one entry in an order's append-only status history
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	ChangedAt time.Time   `json:"changed_at"`
	ActorID   string      `json:"actor_id"`
	Reason    *string     `json:"reason,omitempty"`
}

// Order is the persisted aggregate. It is created exactly once at submission
// and afterwards mutated only by appending a status change; it is never
// physically deleted.
type Order struct {
	ID                       string          `json:"id"`
	CustomerID               string          `json:"customer_id"`
	RestaurantID             string          `json:"restaurant_id"`
	Items                    []LineItem      `json:"items"`
	Delivery                 DeliveryDetails `json:"delivery"`
	PaymentMethod            PaymentMethod   `json:"payment_method"`
	Card                     *CardDetails    `json:"card,omitempty"`
	Summary                  OrderSummary    `json:"summary"`
	Status                   OrderStatus     `json:"status"`
	StatusHistory            []StatusChange  `json:"status_history"`
	EstimatedDeliveryMinutes int             `json:"estimated_delivery_minutes"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	CancelledAt              *time.Time      `json:"cancelled_at,omitempty"`
	CancellationReason       *string         `json:"cancellation_reason,omitempty"`
}

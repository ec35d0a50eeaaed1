package models

import (
	"fmt"
	"time"
)

// OrderCreatedEvent is published after an order is successfully persisted
type OrderCreatedEvent struct {
	OrderID                  string       `json:"order_id"`
	CustomerID               string       `json:"customer_id"`
	RestaurantID             string       `json:"restaurant_id"`
	Summary                  OrderSummary `json:"summary"`
	ItemCount                int          `json:"item_count"`
	EstimatedDeliveryMinutes int          `json:"estimated_delivery_minutes"`
	CreatedAt                time.Time    `json:"created_at"`
}

// OrderStatusChangedEvent is published after a fulfillment transition commits
type OrderStatusChangedEvent struct {
	OrderID      string      `json:"order_id"`
	RestaurantID string      `json:"restaurant_id"`
	OldStatus    OrderStatus `json:"old_status"`
	NewStatus    OrderStatus `json:"new_status"`
	ChangedBy    string      `json:"changed_by"`
	Reason       *string     `json:"reason,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

// NewOrderCreatedEvent builds the creation event for an order
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		OrderID:                  o.ID,
		CustomerID:               o.CustomerID,
		RestaurantID:             o.RestaurantID,
		Summary:                  o.Summary,
		ItemCount:                len(o.Items),
		EstimatedDeliveryMinutes: o.EstimatedDeliveryMinutes,
		CreatedAt:                o.CreatedAt,
	}
}

// NewOrderStatusChangedEvent builds the transition event for an order
func NewOrderStatusChangedEvent(o *Order, old OrderStatus, actorID string, reason *string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		OldStatus:    old,
		NewStatus:    o.Status,
		ChangedBy:    actorID,
		Reason:       reason,
		Timestamp:    time.Now().UTC(),
	}
}

// StatusRoutingKey generates the routing key for status events
func StatusRoutingKey(status OrderStatus) string {
	return fmt.Sprintf("order.status.%s", status)
}

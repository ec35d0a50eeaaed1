package order

import (
	"context"

	"quickbites/internal/models"
)

// Repository persists order aggregates
type Repository interface {
	// Create persists a new order with its items and seeded status history
	// as a single transaction.
	Create(ctx context.Context, o *models.Order) error

	// Get loads the full aggregate: order, items and status history.
	Get(ctx context.Context, orderID string) (*models.Order, error)

	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]*models.Order, error)

	// ListByRestaurant returns the restaurant's orders, newest first,
	// optionally filtered by status.
	ListByRestaurant(ctx context.Context, restaurantID string, status *models.OrderStatus, page, limit int) ([]*models.Order, error)

	// AppendTransition atomically moves the order from expected to next and
	// appends the history entry. Returns false without error when the order
	// is no longer in the expected state, so the caller can re-validate
	// against the fresh state.
	AppendTransition(ctx context.Context, orderID string, expected, next models.OrderStatus, actorID string, reason *string) (bool, error)

	// IncrementRestaurantOrders bumps the restaurant's order counter. Lost
	// updates are tolerated; this is decoupled from the order write.
	IncrementRestaurantOrders(ctx context.Context, restaurantID string) error
}

// EventPublisher emits order lifecycle events after commits
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, routingKey string, event interface{}) error
}

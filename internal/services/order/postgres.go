package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"quickbites/internal/apperr"
	"quickbites/internal/database"
	"quickbites/internal/models"
)

// PostgresRepository persists orders in PostgreSQL
type PostgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates an order repository
func NewPostgresRepository(db *database.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the order, its items and the seeded history entry in one
// transaction. Nothing is written when any part fails.
func (r *PostgresRepository) Create(ctx context.Context, o *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var card models.CardDetails
	if o.Card != nil {
		card = *o.Card
	}

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		o.ID, o.CustomerID, o.RestaurantID,
		o.Delivery.Name, o.Delivery.Phone, o.Delivery.Email,
		o.Delivery.Street, o.Delivery.City, o.Delivery.State, o.Delivery.Zip, o.Delivery.Instructions,
		string(o.PaymentMethod), card.Last4, card.Brand, card.Expiry,
		o.Summary.Subtotal, o.Summary.DeliveryFee, o.Summary.Tax, o.Summary.Total,
		string(o.Status), o.EstimatedDeliveryMinutes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return apperr.Internal("failed to insert order", err)
	}

	for _, item := range o.Items {
		options, err := json.Marshal(item.Customizations.SelectedOptions)
		if err != nil {
			return apperr.Internal("failed to encode item options", err)
		}
		addons, err := json.Marshal(item.Customizations.SelectedAddons)
		if err != nil {
			return apperr.Internal("failed to encode item addons", err)
		}

		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			o.ID, item.ItemID, item.Name, item.UnitPrice, item.Quantity,
			options, addons, item.SpecialInstructions, item.LineTotal)
		if err != nil {
			return apperr.Internal("failed to insert order item", err)
		}
	}

	for _, change := range o.StatusHistory {
		_, err = tx.Exec(ctx, database.InsertStatusLogSQL,
			o.ID, string(change.Status), change.ActorID, change.Reason)
		if err != nil {
			return apperr.Internal("failed to insert status history", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Internal("failed to commit order", err)
	}
	return nil
}

// Get loads the full order aggregate
func (r *PostgresRepository) Get(ctx context.Context, orderID string) (*models.Order, error) {
	var (
		o             models.Order
		paymentMethod string
		status        string
		card          models.CardDetails
	)

	err := r.db.QueryRow(ctx, database.GetOrderSQL, orderID).Scan(
		&o.ID, &o.CustomerID, &o.RestaurantID,
		&o.Delivery.Name, &o.Delivery.Phone, &o.Delivery.Email,
		&o.Delivery.Street, &o.Delivery.City, &o.Delivery.State, &o.Delivery.Zip, &o.Delivery.Instructions,
		&paymentMethod, &card.Last4, &card.Brand, &card.Expiry,
		&o.Summary.Subtotal, &o.Summary.DeliveryFee, &o.Summary.Tax, &o.Summary.Total,
		&status, &o.EstimatedDeliveryMinutes,
		&o.CreatedAt, &o.UpdatedAt, &o.CancelledAt, &o.CancellationReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("order")
		}
		return nil, apperr.Internal("failed to query order", err)
	}

	o.PaymentMethod = models.PaymentMethod(paymentMethod)
	o.Status = models.OrderStatus(status)
	if o.PaymentMethod == models.PaymentCard {
		o.Card = &card
	}

	if o.Items, err = r.getItems(ctx, orderID); err != nil {
		return nil, err
	}
	if o.StatusHistory, err = r.getHistory(ctx, orderID); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *PostgresRepository) getItems(ctx context.Context, orderID string) ([]models.LineItem, error) {
	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, orderID)
	if err != nil {
		return nil, apperr.Internal("failed to query order items", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var (
			item    models.LineItem
			options []byte
			addons  []byte
		)
		err := rows.Scan(&item.ItemID, &item.Name, &item.UnitPrice, &item.Quantity,
			&options, &addons, &item.SpecialInstructions, &item.LineTotal)
		if err != nil {
			return nil, apperr.Internal("failed to scan order item", err)
		}
		if err := json.Unmarshal(options, &item.Customizations.SelectedOptions); err != nil {
			return nil, apperr.Internal("failed to decode item options", err)
		}
		if err := json.Unmarshal(addons, &item.Customizations.SelectedAddons); err != nil {
			return nil, apperr.Internal("failed to decode item addons", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to iterate order items", err)
	}
	return items, nil
}

func (r *PostgresRepository) getHistory(ctx context.Context, orderID string) ([]models.StatusChange, error) {
	rows, err := r.db.Query(ctx, database.GetStatusHistorySQL, orderID)
	if err != nil {
		return nil, apperr.Internal("failed to query status history", err)
	}
	defer rows.Close()

	var history []models.StatusChange
	for rows.Next() {
		var (
			change models.StatusChange
			status string
		)
		if err := rows.Scan(&status, &change.ActorID, &change.Reason, &change.ChangedAt); err != nil {
			return nil, apperr.Internal("failed to scan status history", err)
		}
		change.Status = models.OrderStatus(status)
		history = append(history, change)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to iterate status history", err)
	}
	return history, nil
}

// ListByCustomer returns the customer's orders, newest first
func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]*models.Order, error) {
	return r.list(ctx, database.ListOrdersByCustomerSQL, customerID, limit, offset(page, limit))
}

// ListByRestaurant returns the restaurant's orders, newest first, optionally
// filtered by status
func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID string, status *models.OrderStatus, page, limit int) ([]*models.Order, error) {
	if status != nil {
		return r.list(ctx, database.ListOrdersByRestaurantStatusSQL, restaurantID, string(*status), limit, offset(page, limit))
	}
	return r.list(ctx, database.ListOrdersByRestaurantSQL, restaurantID, limit, offset(page, limit))
}

func (r *PostgresRepository) list(ctx context.Context, sql string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Internal("failed to query orders", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, apperr.Internal("failed to scan order id", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to iterate orders", err)
	}

	orders := make([]*models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// AppendTransition atomically applies a status transition guarded by the
// expected current status. Returns false when a concurrent transition won.
func (r *PostgresRepository) AppendTransition(ctx context.Context, orderID string, expected, next models.OrderStatus, actorID string, reason *string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, apperr.Internal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var tag pgconn.CommandTag
	if next == models.StatusCancelled {
		// reason binds as-is so an absent reason stays NULL
		tag, err = tx.Exec(ctx, database.UpdateOrderCancelledSQL,
			string(next), reason, orderID, string(expected))
	} else {
		tag, err = tx.Exec(ctx, database.UpdateOrderStatusSQL,
			string(next), orderID, string(expected))
	}
	if err != nil {
		return false, apperr.Internal("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		// the order moved on under a concurrent actor
		return false, nil
	}

	_, err = tx.Exec(ctx, database.InsertStatusLogSQL, orderID, string(next), actorID, reason)
	if err != nil {
		return false, apperr.Internal("failed to insert status history", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, apperr.Internal("failed to commit transition", err)
	}
	return true, nil
}

// IncrementRestaurantOrders bumps the restaurant's order counter
func (r *PostgresRepository) IncrementRestaurantOrders(ctx context.Context, restaurantID string) error {
	if err := r.db.Exec(ctx, database.IncrementRestaurantOrdersSQL, restaurantID); err != nil {
		return fmt.Errorf("failed to increment order counter: %w", err)
	}
	return nil
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

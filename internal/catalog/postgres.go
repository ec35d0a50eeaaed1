package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"quickbites/internal/apperr"
	"quickbites/internal/database"
	"quickbites/internal/models"
)

// PostgresLookup reads catalog reference data from PostgreSQL
type PostgresLookup struct {
	db *database.DB
}

// NewPostgresLookup creates a catalog lookup backed by the given database
func NewPostgresLookup(db *database.DB) *PostgresLookup {
	return &PostgresLookup{db: db}
}

// GetRestaurant returns the restaurant record
func (l *PostgresLookup) GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	var r models.Restaurant
	err := l.db.QueryRow(ctx, database.GetRestaurantSQL, restaurantID).Scan(
		&r.ID,
		&r.Name,
		&r.OwnerID,
		&r.IsOpen,
		&r.DeliveryFee,
		&r.EstimatedDeliveryMinutes,
		&r.TotalOrders,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("restaurant")
		}
		return nil, apperr.Internal("failed to query restaurant", err)
	}
	return &r, nil
}

// GetItem returns a menu item scoped to the restaurant, with the add-ons it
// offers. Requiring the restaurant id in the lookup prevents ordering
// another restaurant's item under this restaurant.
func (l *PostgresLookup) GetItem(ctx context.Context, restaurantID, itemID string) (*models.CatalogItem, error) {
	var item models.CatalogItem
	err := l.db.QueryRow(ctx, database.GetMenuItemSQL, itemID, restaurantID).Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Name,
		&item.Price,
		&item.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("menu item")
		}
		return nil, apperr.Internal("failed to query menu item", err)
	}

	if item.Addons, err = l.getAddons(ctx, itemID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (l *PostgresLookup) getAddons(ctx context.Context, itemID string) ([]models.Addon, error) {
	rows, err := l.db.Query(ctx, database.GetMenuItemAddonsSQL, itemID)
	if err != nil {
		return nil, apperr.Internal("failed to query item add-ons", err)
	}
	defer rows.Close()

	var addons []models.Addon
	for rows.Next() {
		var a models.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.Price); err != nil {
			return nil, apperr.Internal("failed to scan item add-on", err)
		}
		addons = append(addons, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to iterate item add-ons", err)
	}
	return addons, nil
}

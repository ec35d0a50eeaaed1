// Package catalog exposes the menu reference data the order engine prices
// against. The engine only ever reads it; catalog management lives elsewhere.
package catalog

import (
	"context"

	"quickbites/internal/models"
)

// Lookup resolves restaurants and menu items to their canonical records
type Lookup interface {
	// GetRestaurant returns the restaurant record or apperr.NotFound.
	GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error)
	// GetItem returns the menu item owned by restaurantID, or apperr.NotFound
	// when the id does not resolve under that restaurant.
	GetItem(ctx context.Context, restaurantID, itemID string) (*models.CatalogItem, error)
}

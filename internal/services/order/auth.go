package order

import (
	"context"

	"quickbites/internal/apperr"
	"quickbites/internal/catalog"
	"quickbites/internal/models"
)

// Guard decides what an actor may do with an order. Restaurant-scoped rights
// are resolved by looking up the restaurant's owner, not by role alone: a
// user can hold the restaurant role without owning this particular
// restaurant.
type Guard struct {
	catalog catalog.Lookup
}

// NewGuard creates an authorization guard
func NewGuard(lookup catalog.Lookup) *Guard {
	return &Guard{catalog: lookup}
}

// CanRead returns nil when the actor may view the order
func (g *Guard) CanRead(ctx context.Context, o *models.Order, actor models.Actor) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}
	if actor.ID == o.CustomerID {
		return nil
	}
	owns, err := g.ownsRestaurant(ctx, actor, o.RestaurantID)
	if err != nil {
		return err
	}
	if owns {
		return nil
	}
	return apperr.Forbidden("you are not allowed to view this order")
}

// CanAdvance returns nil when the actor may request the given transition.
// Transition legality itself is checked separately against the state machine.
func (g *Guard) CanAdvance(ctx context.Context, o *models.Order, actor models.Actor, requested models.OrderStatus) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil

	case models.RoleCustomer:
		if actor.ID != o.CustomerID {
			return apperr.Forbidden("you are not allowed to modify this order")
		}
		if requested != models.StatusCancelled {
			return apperr.Forbidden("customers may only cancel orders")
		}
		// the retry of an already-cancelled order stays allowed so it can
		// resolve as an idempotent no-op
		if !o.Status.CustomerCancellable() && o.Status != models.StatusCancelled {
			return apperr.Forbidden("this order can no longer be cancelled")
		}
		return nil

	case models.RoleRestaurant:
		owns, err := g.ownsRestaurant(ctx, actor, o.RestaurantID)
		if err != nil {
			return err
		}
		if !owns {
			return apperr.Forbidden("you do not own the restaurant for this order")
		}
		return nil

	default:
		return apperr.Forbidden("unknown role")
	}
}

func (g *Guard) ownsRestaurant(ctx context.Context, actor models.Actor, restaurantID string) (bool, error) {
	if actor.Role != models.RoleRestaurant {
		return false, nil
	}
	restaurant, err := g.catalog.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return restaurant.OwnerID == actor.ID, nil
}

package order

import (
	"context"
	"testing"

	"quickbites/internal/apperr"
	"quickbites/internal/models"
)

func guardFixture() (*Guard, *models.Order) {
	cat := newFakeCatalog()
	cat.addRestaurant(models.Restaurant{ID: "rest-1", Name: "Napoli Pizza", OwnerID: "owner-1", IsOpen: true})

	o := &models.Order{
		ID:           "order-1",
		CustomerID:   "cust-1",
		RestaurantID: "rest-1",
		Status:       models.StatusPending,
	}
	return NewGuard(cat), o
}

func TestGuardCanRead(t *testing.T) {
	guard, o := guardFixture()

	tests := []struct {
		name    string
		actor   models.Actor
		allowed bool
	}{
		{"owning customer", models.Actor{ID: "cust-1", Role: models.RoleCustomer}, true},
		{"other customer", models.Actor{ID: "cust-2", Role: models.RoleCustomer}, false},
		{"restaurant owner", models.Actor{ID: "owner-1", Role: models.RoleRestaurant}, true},
		{"other restaurant", models.Actor{ID: "owner-2", Role: models.RoleRestaurant}, false},
		{"customer with owner id", models.Actor{ID: "owner-1", Role: models.RoleCustomer}, false},
		{"admin", models.Actor{ID: "root", Role: models.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.CanRead(context.Background(), o, tt.actor)
			if tt.allowed && err != nil {
				t.Errorf("CanRead() error = %v, want allowed", err)
			}
			if !tt.allowed && !apperr.IsKind(err, apperr.KindForbidden) {
				t.Errorf("CanRead() error = %v, want forbidden", err)
			}
		})
	}
}

func TestGuardCanAdvance(t *testing.T) {
	guard, _ := guardFixture()

	order := func(status models.OrderStatus) *models.Order {
		return &models.Order{ID: "order-1", CustomerID: "cust-1", RestaurantID: "rest-1", Status: status}
	}

	customer := models.Actor{ID: "cust-1", Role: models.RoleCustomer}
	owner := models.Actor{ID: "owner-1", Role: models.RoleRestaurant}

	tests := []struct {
		name      string
		actor     models.Actor
		status    models.OrderStatus
		requested models.OrderStatus
		allowed   bool
	}{
		{"customer cancels pending", customer, models.StatusPending, models.StatusCancelled, true},
		{"customer cancels confirmed", customer, models.StatusConfirmed, models.StatusCancelled, true},
		{"customer cancels preparing", customer, models.StatusPreparing, models.StatusCancelled, true},
		{"customer cancels ready", customer, models.StatusReady, models.StatusCancelled, false},
		{"customer cancels out for delivery", customer, models.StatusOutForDelivery, models.StatusCancelled, false},
		{"customer retries cancelled", customer, models.StatusCancelled, models.StatusCancelled, true},
		{"customer confirms own order", customer, models.StatusPending, models.StatusConfirmed, false},
		{"other customer cancels", models.Actor{ID: "cust-2", Role: models.RoleCustomer}, models.StatusPending, models.StatusCancelled, false},
		{"owner confirms", owner, models.StatusPending, models.StatusConfirmed, true},
		{"owner cancels late", owner, models.StatusOutForDelivery, models.StatusCancelled, true},
		{"other restaurant confirms", models.Actor{ID: "owner-2", Role: models.RoleRestaurant}, models.StatusPending, models.StatusConfirmed, false},
		{"admin anything", models.Actor{ID: "root", Role: models.RoleAdmin}, models.StatusReady, models.StatusCancelled, true},
		{"unknown role", models.Actor{ID: "x", Role: models.Role("courier")}, models.StatusPending, models.StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.CanAdvance(context.Background(), order(tt.status), tt.actor, tt.requested)
			if tt.allowed && err != nil {
				t.Errorf("CanAdvance() error = %v, want allowed", err)
			}
			if !tt.allowed && !apperr.IsKind(err, apperr.KindForbidden) {
				t.Errorf("CanAdvance() error = %v, want forbidden", err)
			}
		})
	}
}

func TestGuardUnknownRestaurant(t *testing.T) {
	guard := NewGuard(newFakeCatalog())
	o := &models.Order{ID: "order-1", CustomerID: "cust-1", RestaurantID: "gone", Status: models.StatusPending}

	// a dangling restaurant reference denies instead of erroring
	err := guard.CanAdvance(context.Background(), o, models.Actor{ID: "owner-1", Role: models.RoleRestaurant}, models.StatusConfirmed)
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("CanAdvance() error = %v, want forbidden", err)
	}
}

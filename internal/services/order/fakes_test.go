package order

import (
	"context"
	"sort"
	"time"

	"quickbites/internal/apperr"
	"quickbites/internal/models"
)

// fakeCatalog serves reference data from memory
type fakeCatalog struct {
	restaurants map[string]models.Restaurant
	items       map[string]models.CatalogItem // keyed restaurantID/itemID
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		restaurants: make(map[string]models.Restaurant),
		items:       make(map[string]models.CatalogItem),
	}
}

func (f *fakeCatalog) addRestaurant(r models.Restaurant) {
	f.restaurants[r.ID] = r
}

func (f *fakeCatalog) addItem(item models.CatalogItem) {
	f.items[item.RestaurantID+"/"+item.ID] = item
}

func (f *fakeCatalog) GetRestaurant(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	r, ok := f.restaurants[restaurantID]
	if !ok {
		return nil, apperr.NotFound("restaurant")
	}
	return &r, nil
}

func (f *fakeCatalog) GetItem(ctx context.Context, restaurantID, itemID string) (*models.CatalogItem, error) {
	item, ok := f.items[restaurantID+"/"+itemID]
	if !ok {
		return nil, apperr.NotFound("menu item")
	}
	return &item, nil
}

// fakeRepo keeps orders in memory
type fakeRepo struct {
	orders   map[string]*models.Order
	counters map[string]int

	// stealTransition, when set, is invoked once before the next
	// AppendTransition to simulate a concurrent actor winning the race.
	stealTransition func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orders:   make(map[string]*models.Order),
		counters: make(map[string]int),
	}
}

func copyOrder(o *models.Order) *models.Order {
	dup := *o
	dup.Items = append([]models.LineItem(nil), o.Items...)
	dup.StatusHistory = append([]models.StatusChange(nil), o.StatusHistory...)
	return &dup
}

func (f *fakeRepo) Create(ctx context.Context, o *models.Order) error {
	f.orders[o.ID] = copyOrder(o)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, orderID string) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, apperr.NotFound("order")
	}
	return copyOrder(o), nil
}

func (f *fakeRepo) ListByCustomer(ctx context.Context, customerID string, page, limit int) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, copyOrder(o))
		}
	}
	return paginate(out, page, limit), nil
}

func (f *fakeRepo) ListByRestaurant(ctx context.Context, restaurantID string, status *models.OrderStatus, page, limit int) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range f.orders {
		if o.RestaurantID != restaurantID {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, copyOrder(o))
	}
	return paginate(out, page, limit), nil
}

func paginate(orders []*models.Order, page, limit int) []*models.Order {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	start := (page - 1) * limit
	if start >= len(orders) {
		return nil
	}
	end := start + limit
	if end > len(orders) {
		end = len(orders)
	}
	return orders[start:end]
}

func (f *fakeRepo) AppendTransition(ctx context.Context, orderID string, expected, next models.OrderStatus, actorID string, reason *string) (bool, error) {
	if f.stealTransition != nil {
		steal := f.stealTransition
		f.stealTransition = nil
		steal()
	}

	o, ok := f.orders[orderID]
	if !ok {
		return false, apperr.NotFound("order")
	}
	if o.Status != expected {
		return false, nil
	}

	now := time.Now().UTC()
	o.Status = next
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, models.StatusChange{
		Status:    next,
		ChangedAt: now,
		ActorID:   actorID,
		Reason:    reason,
	})
	if next == models.StatusCancelled {
		o.CancelledAt = &now
		o.CancellationReason = reason
	}
	return true, nil
}

func (f *fakeRepo) IncrementRestaurantOrders(ctx context.Context, restaurantID string) error {
	f.counters[restaurantID]++
	return nil
}

// capturePublisher records published events
type capturePublisher struct {
	routingKeys []string
	events      []interface{}
}

func (p *capturePublisher) PublishOrderEvent(ctx context.Context, routingKey string, event interface{}) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	p.events = append(p.events, event)
	return nil
}

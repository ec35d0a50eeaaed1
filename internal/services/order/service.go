package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quickbites/internal/apperr"
	"quickbites/internal/cart"
	"quickbites/internal/catalog"
	"quickbites/internal/logger"
	"quickbites/internal/models"
	"quickbites/internal/pricing"
)

// maxTransitionRetries bounds re-validation attempts when concurrent actors
// race transitions from the same prior state.
const maxTransitionRetries = 3

// Service orchestrates order submission and fulfillment transitions
type Service struct {
	repo      Repository
	catalog   catalog.Lookup
	guard     *Guard
	calc      *pricing.Calculator
	publisher EventPublisher
	logger    *logger.Logger
}

// NewService creates the order service. publisher may be nil, in which case
// no events are emitted.
func NewService(repo Repository, lookup catalog.Lookup, calc *pricing.Calculator, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   lookup,
		guard:     NewGuard(lookup),
		calc:      calc,
		publisher: publisher,
		logger:    log,
	}
}

// Guard exposes the service's authorization guard
func (s *Service) Guard() *Guard {
	return s.guard
}

// Submit turns the session's cart into a persisted order. Every line is
// re-resolved against the catalog and repriced; prices cached in the cart
// are never trusted. Either the whole order is persisted or nothing is.
func (s *Service) Submit(ctx context.Context, c *cart.Cart, customerID string, req *models.SubmitOrderRequest, requestID string) (*models.SubmitOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if c == nil || c.IsEmpty() || c.RestaurantID == "" {
		return nil, apperr.New(apperr.KindValidation, apperr.CodeEmptyCart, "cart is empty")
	}

	restaurant, err := s.catalog.GetRestaurant(ctx, c.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsOpen {
		return nil, apperr.Newf(apperr.KindPricing, apperr.CodeRestaurantClosed,
			"%s is currently closed", restaurant.Name)
	}

	catalogItems, err := s.resolveItems(ctx, c)
	if err != nil {
		return nil, err
	}

	items, summary, err := s.calc.Price(c.Items, catalogItems, restaurant)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o := &models.Order{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		RestaurantID:  restaurant.ID,
		Items:         items,
		Delivery:      req.Delivery,
		PaymentMethod: req.PaymentMethod,
		Card:          req.Card,
		Summary:       summary,
		Status:        models.StatusPending,
		StatusHistory: []models.StatusChange{
			{Status: models.StatusPending, ChangedAt: now, ActorID: customerID},
		},
		EstimatedDeliveryMinutes: s.calc.EstimatedMinutes(restaurant),
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	// The counter is a metric, not part of the order's consistency unit; a
	// lost update here never fails the submission.
	if err := s.repo.IncrementRestaurantOrders(ctx, restaurant.ID); err != nil {
		s.logger.Error("order_counter_failed", "Failed to increment restaurant order counter",
			requestID, err, map[string]interface{}{"restaurant_id": restaurant.ID})
	}

	s.publish(ctx, models.StatusRoutingKey(o.Status), models.NewOrderCreatedEvent(o), requestID)

	s.logger.Info("order_created", "Order submitted", requestID, map[string]interface{}{
		"order_id":      o.ID,
		"restaurant_id": o.RestaurantID,
		"total":         o.Summary.Total,
	})

	return &models.SubmitOrderResponse{
		OrderID:                  o.ID,
		Status:                   o.Status,
		Summary:                  o.Summary,
		EstimatedDeliveryMinutes: o.EstimatedDeliveryMinutes,
	}, nil
}

// resolveItems fetches the canonical catalog record of every distinct item
// in the cart. Items that do not resolve under the cart's restaurant are
// left out so pricing reports them.
func (s *Service) resolveItems(ctx context.Context, c *cart.Cart) (map[string]models.CatalogItem, error) {
	resolved := make(map[string]models.CatalogItem, len(c.Items))
	for _, line := range c.Items {
		if _, ok := resolved[line.ItemID]; ok {
			continue
		}
		item, err := s.catalog.GetItem(ctx, c.RestaurantID, line.ItemID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				continue
			}
			return nil, err
		}
		resolved[line.ItemID] = *item
	}
	return resolved, nil
}

// Get returns the order if the actor may read it
func (s *Service) Get(ctx context.Context, orderID string, actor models.Actor) (*models.Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanRead(ctx, o, actor); err != nil {
		return nil, err
	}
	return o, nil
}

// ListForCustomer returns the actor's own orders, newest first
func (s *Service) ListForCustomer(ctx context.Context, actor models.Actor, page, limit int) ([]*models.Order, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.ListByCustomer(ctx, actor.ID, page, limit)
}

// ListForRestaurant returns a restaurant's orders for its dashboard. Only
// the restaurant's owner and admins may list them.
func (s *Service) ListForRestaurant(ctx context.Context, restaurantID string, actor models.Actor, status *models.OrderStatus, page, limit int) ([]*models.Order, error) {
	if actor.Role != models.RoleAdmin {
		owns, err := s.guard.ownsRestaurant(ctx, actor, restaurantID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, apperr.Forbidden("you do not own this restaurant")
		}
	}
	page, limit = normalizePage(page, limit)
	return s.repo.ListByRestaurant(ctx, restaurantID, status, page, limit)
}

// Advance moves an order to the requested fulfillment state on behalf of the
// actor. Requesting the state the order is already in is an idempotent no-op
// so client retries stay safe. The transition is validated against the
// freshly read state and committed optimistically; on a concurrent change
// the whole check runs again.
func (s *Service) Advance(ctx context.Context, orderID string, actor models.Actor, requested models.OrderStatus, reason, requestID string) (*models.Order, error) {
	if !requested.IsValid() {
		return nil, apperr.Validation("status", "unknown status")
	}

	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		o, err := s.repo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}

		if err := s.guard.CanAdvance(ctx, o, actor, requested); err != nil {
			return nil, err
		}

		if o.Status == requested {
			// retry of an already-applied transition
			return o, nil
		}

		if err := validateTransition(o.Status, requested); err != nil {
			return nil, err
		}
		if err := validateReason(actor, requested, reason); err != nil {
			return nil, err
		}

		applied, err := s.repo.AppendTransition(ctx, orderID, o.Status, requested, actor.ID, reasonValue(reason))
		if err != nil {
			return nil, err
		}
		if !applied {
			continue
		}

		old := o.Status
		o, err = s.repo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}

		s.publish(ctx, models.StatusRoutingKey(o.Status),
			models.NewOrderStatusChangedEvent(o, old, actor.ID, reasonValue(reason)), requestID)

		s.logger.Info("order_status_changed", "Order status changed", requestID, map[string]interface{}{
			"order_id":   o.ID,
			"old_status": string(old),
			"new_status": string(o.Status),
			"actor_id":   actor.ID,
		})

		return o, nil
	}

	return nil, apperr.New(apperr.KindConflict, apperr.CodeConcurrentModification,
		"order state changed concurrently, try again")
}

// Cancel cancels an order with the given reason
func (s *Service) Cancel(ctx context.Context, orderID string, actor models.Actor, reason, requestID string) (*models.Order, error) {
	return s.Advance(ctx, orderID, actor, models.StatusCancelled, reason, requestID)
}

func (s *Service) publish(ctx context.Context, routingKey string, event interface{}, requestID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, routingKey, event); err != nil {
		s.logger.Error("event_publish_failed", "Failed to publish order event",
			requestID, err, map[string]interface{}{"routing_key": routingKey})
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

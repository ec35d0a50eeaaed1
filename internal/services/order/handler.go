package order

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"quickbites/internal/apperr"
	"quickbites/internal/cart"
	"quickbites/internal/catalog"
	"quickbites/internal/logger"
	"quickbites/internal/models"
)

// CartStore persists session carts
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Save(ctx context.Context, sessionID string, c *cart.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Handler handles HTTP requests for the order engine
type Handler struct {
	service *Service
	carts   CartStore
	catalog catalog.Lookup
	logger  *logger.Logger
}

// NewHandler creates the HTTP handler
func NewHandler(service *Service, carts CartStore, lookup catalog.Lookup, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		carts:   carts,
		catalog: lookup,
		logger:  log,
	}
}

// Routes builds the router
func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(h.withLogging)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addCartItem)
		r.Patch("/items/{key}", h.updateCartItem)
		r.Delete("/items/{key}", h.removeCartItem)
	})

	r.Post("/orders", h.submitOrder)
	r.Get("/orders", h.listCustomerOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/status", h.advanceStatus)
	r.Post("/orders/{id}/cancel", h.cancelOrder)
	r.Get("/restaurants/{id}/orders", h.listRestaurantOrders)

	r.Get("/health", h.healthCheck)

	return r
}

// cartView is the cart plus its running quote
type cartView struct {
	RestaurantID string         `json:"restaurant_id,omitempty"`
	Items        []cartLineView `json:"items"`
	CartTotal    int64          `json:"cart_total"`
}

type cartLineView struct {
	Key string `json:"key"`
	models.LineItem
}

func newCartView(c *cart.Cart) cartView {
	view := cartView{
		RestaurantID: c.RestaurantID,
		Items:        make([]cartLineView, 0, len(c.Items)),
		CartTotal:    c.Quote(),
	}
	for i := range c.Items {
		view.Items = append(view.Items, cartLineView{
			Key:      c.Items[i].IdentityKey(),
			LineItem: c.Items[i],
		})
	}
	return view
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}

	c, err := h.carts.Load(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}

	var req models.AddItemRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	// snapshot name and prices for display; the order is repriced at submission
	item, err := h.catalog.GetItem(r.Context(), req.RestaurantID, req.ItemID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	// client-declared add-on prices are discarded here and again at pricing
	customizations := models.Customizations{SelectedOptions: req.Customizations.SelectedOptions}
	for _, selected := range req.Customizations.SelectedAddons {
		canonical, ok := item.Addon(selected.ID)
		if !ok {
			h.writeError(w, apperr.NotFound("add-on"), requestID)
			return
		}
		customizations.SelectedAddons = append(customizations.SelectedAddons, canonical)
	}

	c, err := h.carts.Load(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	c.AddItem(req.RestaurantID, models.LineItem{
		ItemID:              item.ID,
		Name:                item.Name,
		UnitPrice:           item.Price,
		Quantity:            1,
		Customizations:      customizations,
		SpecialInstructions: req.SpecialInstructions,
	})

	if err := h.carts.Save(r.Context(), sessionID, c); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}

	var req models.UpdateQuantityRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	c, err := h.carts.Load(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	if !c.UpdateQuantity(chi.URLParam(r, "key"), req.Quantity) {
		h.writeError(w, apperr.NotFound("cart line"), requestID)
		return
	}

	if err := h.carts.Save(r.Context(), sessionID, c); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}

	c, err := h.carts.Load(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	if !c.RemoveLine(chi.URLParam(r, "key")) {
		h.writeError(w, apperr.NotFound("cart line"), requestID)
		return
	}

	if err := h.carts.Save(r.Context(), sessionID, c); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartView(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}

	if err := h.carts.Delete(r.Context(), sessionID); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, newCartView(cart.New()))
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	actor, ok := h.actor(w, r, requestID)
	if !ok {
		return
	}
	sessionID, ok := h.sessionID(w, r, requestID)
	if !ok {
		return
	}

	var req models.SubmitOrderRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	c, err := h.carts.Load(r.Context(), sessionID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	resp, err := h.service.Submit(ctx, c, actor.ID, &req, requestID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	// the cart is spent once the order exists
	if err := h.carts.Delete(ctx, sessionID); err != nil {
		h.logger.Error("cart_cleanup_failed", "Failed to delete cart after submission",
			requestID, err, map[string]interface{}{"order_id": resp.OrderID})
	}

	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	actor, ok := h.actor(w, r, requestID)
	if !ok {
		return
	}

	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	actor, ok := h.actor(w, r, requestID)
	if !ok {
		return
	}

	page, limit := pageParams(r)
	orders, err := h.service.ListForCustomer(r.Context(), actor, page, limit)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) listRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	actor, ok := h.actor(w, r, requestID)
	if !ok {
		return
	}

	var statusFilter *models.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.IsValid() {
			h.writeError(w, apperr.Validation("status", "unknown status"), requestID)
			return
		}
		statusFilter = &status
	}

	page, limit := pageParams(r)
	orders, err := h.service.ListForRestaurant(r.Context(), chi.URLParam(r, "id"), actor, statusFilter, page, limit)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) advanceStatus(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	actor, ok := h.actor(w, r, requestID)
	if !ok {
		return
	}

	var req models.AdvanceStatusRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, err, requestID)
		return
	}

	o, err := h.service.Advance(r.Context(), chi.URLParam(r, "id"), actor, req.Status, req.Reason, requestID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	actor, ok := h.actor(w, r, requestID)
	if !ok {
		return
	}

	var req models.CancelOrderRequest
	if !h.decode(w, r, &req, requestID) {
		return
	}

	o, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), actor, req.Reason, requestID)
	if err != nil {
		h.writeError(w, err, requestID)
		return
	}

	h.writeJSON(w, http.StatusOK, o)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "order-service",
	})
}

// actor resolves the already-authenticated principal from the request.
// Authentication itself happens upstream; these headers are set by the
// gateway after token verification.
func (h *Handler) actor(w http.ResponseWriter, r *http.Request, requestID string) (models.Actor, bool) {
	actor := models.Actor{
		ID:   r.Header.Get("X-User-Id"),
		Role: models.Role(r.Header.Get("X-User-Role")),
	}
	if actor.ID == "" || !actor.Role.IsValid() {
		h.writeErrorResponse(w, http.StatusUnauthorized, "missing or invalid identity headers", "", requestID)
		return models.Actor{}, false
	}
	return actor, true
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request, requestID string) (string, bool) {
	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "X-Session-Id header is required", "", requestID)
		return "", false
	}
	return sessionID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, requestID string) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid JSON body", "", requestID)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", "", err, nil)
	}
}

// writeError maps the error taxonomy to HTTP statuses. Internal failures are
// logged in full but reduced to a generic message for clients.
func (h *Handler) writeError(w http.ResponseWriter, err error, requestID string) {
	kind := apperr.KindOf(err)
	code := apperr.CodeOf(err)
	message := err.Error()

	var status int
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindPricing:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		h.logger.Error("internal_error", "Unhandled internal error", requestID, err, nil)
		message = "internal server error"
	}

	h.writeErrorResponse(w, status, message, code, requestID)
}

func (h *Handler) writeErrorResponse(w http.ResponseWriter, status int, message, code, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}
	if code != "" {
		resp["code"] = code
	}

	json.NewEncoder(w).Encode(resp)
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// withLogging logs each request with its status code and duration
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			"", map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

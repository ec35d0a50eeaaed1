package order

import (
	"strings"

	"quickbites/internal/apperr"
	"quickbites/internal/models"
)

// validateTransition checks the fulfillment transition table against the
// freshly read order state. The caller handles the idempotent case of the
// order already sitting at the requested status.
func validateTransition(current, requested models.OrderStatus) error {
	if !current.CanTransitionTo(requested) {
		return apperr.Newf(apperr.KindConflict, apperr.CodeInvalidTransition,
			"cannot transition order from %s to %s", current, requested)
	}
	return nil
}

// validateReason enforces the cancellation reason rules: customers must say
// why they are cancelling, restaurant and admin reasons are optional but
// recorded when present.
func validateReason(actor models.Actor, requested models.OrderStatus, reason string) error {
	if requested != models.StatusCancelled {
		return nil
	}
	if actor.Role == models.RoleCustomer && strings.TrimSpace(reason) == "" {
		return apperr.New(apperr.KindValidation, apperr.CodeReasonRequired,
			"a cancellation reason is required")
	}
	return nil
}

// reasonValue returns the reason as a nullable pointer, dropping blanks
func reasonValue(reason string) *string {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

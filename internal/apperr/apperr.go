// Package apperr defines the error taxonomy shared by the order engine.
// Every failure crossing a service boundary is one of these kinds so the
// transport layer can map it to a response without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure
type Kind int

const (
	// KindValidation means the caller sent malformed input and can retry
	// after correcting it.
	KindValidation Kind = iota
	// KindNotFound means the referenced order, restaurant or item is absent.
	KindNotFound
	// KindForbidden means the actor is not allowed to perform the operation.
	KindForbidden
	// KindConflict means the operation lost against the current state of the
	// order, e.g. an illegal status transition.
	KindConflict
	// KindPricing means the order could not be priced against the catalog.
	KindPricing
	// KindInternal means persistence or infrastructure failed.
	KindInternal
)

// Machine-readable codes carried by domain errors.
const (
	CodeEmptyCart              = "EMPTY_CART"
	CodeRestaurantClosed       = "RESTAURANT_CLOSED"
	CodeItemUnavailable        = "ITEM_UNAVAILABLE"
	CodeItemNotFound           = "ITEM_NOT_FOUND"
	CodeAddonNotFound          = "ADDON_NOT_FOUND"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeReasonRequired         = "REASON_REQUIRED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// Error is a classified domain error
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf creates an error of the given kind with a formatted message
func Newf(kind Kind, code, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an underlying error
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a validation error for a field
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf("%s: %s", field, message)}
}

// NotFound creates a not-found error for an entity
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Forbidden creates an authorization failure
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Internal wraps an infrastructure failure
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from err; unclassified errors report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf extracts the machine code from err, if any
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

package domain

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedResponse indicates the server returned a shape the
	// normalizer cannot interpret. Not retried automatically.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidItemID is a local precondition failure raised before any
	// network call is dispatched.
	ErrInvalidItemID = errors.New("invalid item id")
	// ErrAuthRequired maps a 401 from any authenticated call. Receiving it
	// clears the identity as a cross-cutting side effect.
	ErrAuthRequired = errors.New("authentication required")
	// ErrItemNotFound maps a 404 on a cart mutation; the cart should be
	// refetched to resync.
	ErrItemNotFound = errors.New("item not found")
	// ErrServerError covers 5xx and otherwise-unexpected statuses.
	ErrServerError = errors.New("server error")
	// ErrTransport covers network failures and timeouts.
	ErrTransport = errors.New("transport failure")
)

// FieldError is a single per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field of an order submission,
// whether detected locally before dispatch or extracted from a 422 response.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

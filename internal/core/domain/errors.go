package domain

import "errors"

// Common errors for the domain layer
var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrEntitlementCheck means the role lookup itself failed. The retrieval must be blocked.
	ErrEntitlementCheck = errors.New("entitlement check failed")

	// ErrMalformedQuery means a markup query could not be parsed and was not passed through.
	ErrMalformedQuery = errors.New("malformed query document")

	// ErrUnsupportedQuery is returned for query shapes that may carry attribute predicates
	// but have no rewrite strategy.
	ErrUnsupportedQuery = errors.New("unsupported query variant")

	ErrNotificationDelivery = errors.New("notification delivery failed")
)

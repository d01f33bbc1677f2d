package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrNotEligible is a normal business outcome, not a fault: the customer
	// profile and product type did not satisfy any affiliation rule.
	ErrNotEligible = errors.New("customer not eligible for product")

	// ErrRemoteUnavailable marks a snapshot lookup that failed or was
	// short-circuited by an open breaker. Orchestrators absorb it into
	// ErrNotEligible; it never reaches the caller.
	ErrRemoteUnavailable = errors.New("remote lookup unavailable")

	ErrInvalidRequest = errors.New("invalid request")
)

package repository

import "errors"

// Provider failure taxonomy. Components absorb these at their boundary and
// convert them into degraded-but-valid output; nothing here becomes a 5xx.
var (
	// ErrProviderUnavailable covers transport errors, timeouts, and
	// non-2xx responses, including absent credentials.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderEmpty marks a well-formed response with no usable data.
	ErrProviderEmpty = errors.New("provider returned no usable data")

	// ErrClassifierUnavailable marks a classifier call that could not be
	// made (no credentials) or failed in flight.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrMalformedPayload marks an unexpected upstream shape. Treated as
	// empty, never fatal.
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

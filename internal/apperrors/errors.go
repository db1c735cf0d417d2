package apperrors

import "errors"

// Store errors are raised by the repository layer and propagated unchanged by the services.
var (
	// ErrPersistence indicates the store was unreachable or a read/write failed.
	ErrPersistence = errors.New("persistence failure")

	// ErrDataCorruption indicates a stored value does not parse per the schema
	// (e.g. a date that is not YYYY-MM-DD). Stored values are never coerced.
	ErrDataCorruption = errors.New("stored data is corrupt")
)

// Domain entity errors represent expected absence. Callers decide on a fallback.
var (
	// ErrPriceNotFound indicates no price exists for the ticker at or before the requested date.
	ErrPriceNotFound = errors.New("price not found")
)

// Business logic errors represent validation failures or valuations that cannot be performed.
var (
	// ErrInsufficientData indicates a valuation is impossible: no orders, no price history,
	// or a zero cost basis. It is distinct from a zero result.
	ErrInsufficientData = errors.New("insufficient data for valuation")

	// ErrNegativePosition indicates SELL orders exceed the BUY orders before them.
	// Short positions are not supported.
	ErrNegativePosition = errors.New("sell orders exceed shares held")

	// ErrInvalidOrder indicates an order failed validation before insert.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInvalidPrice indicates a price record failed validation before insert.
	ErrInvalidPrice = errors.New("invalid price")

	// Validation errors for request parameters
	ErrInvalidUserID = errors.New("user ID must be a positive integer")
	ErrInvalidTicker = errors.New("ticker is required")
	ErrInvalidDate   = errors.New("date must be formatted as YYYY-MM-DD")
)

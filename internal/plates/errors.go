package plates

import "errors"

var (
	// ErrInvalidDenominations is returned when a denomination set is empty, too large, or contains
	// plates lighter than MinDenomination or non-finite plate weights.
	ErrInvalidDenominations = errors.New("plate set must contain between 1 and 10 plate weights of at least 0.01")
)

package distribution

import "github.com/GrahamDennis/distributions/common/errors"

var (
	// ErrInvalidRange is the error returned when a range's lower bound is
	// not strictly less than its upper bound.
	ErrInvalidRange = errors.New(ModuleName, 1, "distribution: invalid range, low must be less than high")

	// ErrEmptyChoice is the error returned when choosing from no items.
	ErrEmptyChoice = errors.New(ModuleName, 2, "distribution: cannot choose from an empty slice")
)

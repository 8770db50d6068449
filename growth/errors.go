package growth

import (
	"errors"
	"fmt"
)

// ErrInvalidPolicy is the sentinel wrapped by every policy validation error.
var ErrInvalidPolicy = errors.New("invalid growth policy")

// ErrInvalidStartCapacity indicates a start capacity below 1.
type ErrInvalidStartCapacity struct {
	StartCapacity int
}

func (e *ErrInvalidStartCapacity) Error() string {
	return fmt.Sprintf("invalid start capacity: %d (must be >= 1)", e.StartCapacity)
}

func (e *ErrInvalidStartCapacity) Unwrap() error { return ErrInvalidPolicy }

// ErrInvalidGrowthRate indicates a growth rate below 1.0, NaN or infinity.
type ErrInvalidGrowthRate struct {
	GrowthRate float64
}

func (e *ErrInvalidGrowthRate) Error() string {
	return fmt.Sprintf("invalid growth rate: %v (must be finite and >= 1.0)", e.GrowthRate)
}

func (e *ErrInvalidGrowthRate) Unwrap() error { return ErrInvalidPolicy }

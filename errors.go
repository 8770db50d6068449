package bucketvec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when a container is constructed from
	// invalid growth parameters. The underlying growth error is wrapped as well.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IndexOutOfRangeError is the panic value of the unchecked accessors.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("bucketvec: index out of range [%d] with length %d", e.Index, e.Len)
}

func invalidConfig(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

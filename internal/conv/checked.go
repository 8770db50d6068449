package conv

import (
	"fmt"
	"math"
	"math/bits"
)

// OverflowError is the panic value raised by the Must* helpers.
type OverflowError struct {
	Op   string
	A, B int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %s(%d, %d) exceeds int range", e.Op, e.A, e.B)
}

// MustAdd returns a+b for non-negative operands or panics on overflow.
func MustAdd(a, b int) int {
	if a < 0 || b < 0 || a > math.MaxInt-b {
		panic(&OverflowError{Op: "add", A: int64(a), B: int64(b)})
	}
	return a + b
}

// MustMul returns a*b for non-negative operands or panics on overflow.
func MustMul(a, b int) int {
	if a < 0 || b < 0 {
		panic(&OverflowError{Op: "mul", A: int64(a), B: int64(b)})
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt {
		panic(&OverflowError{Op: "mul", A: int64(a), B: int64(b)})
	}
	return int(lo)
}

// MustShl returns a<<s for a non-negative a or panics if bits would be lost.
func MustShl(a, s int) int {
	if a < 0 || s < 0 {
		panic(&OverflowError{Op: "shl", A: int64(a), B: int64(s)})
	}
	if a == 0 {
		return 0
	}
	if s >= bits.UintSize-1 || bits.Len(uint(a))+s > bits.UintSize-1 {
		panic(&OverflowError{Op: "shl", A: int64(a), B: int64(s)})
	}
	return a << s
}

// MustFloatToInt converts a finite, non-negative float to int or panics.
func MustFloatToInt(f float64) int {
	// float64(math.MaxInt) rounds up to 2^63, so the comparison is >=.
	if math.IsNaN(f) || f < 0 || f >= float64(math.MaxInt) {
		panic(&OverflowError{Op: "float", A: int64(math.Float64bits(f)), B: 0})
	}
	return int(f)
}

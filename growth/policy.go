package growth

import (
	"math"

	"github.com/hupe1980/bucketvec/internal/conv"
)

const (
	// DefaultStartCapacity is the capacity of the first segment.
	DefaultStartCapacity = 4
	// DefaultGrowthRate doubles the capacity of every following segment.
	DefaultGrowthRate = 2.0
)

// Policy maps a segment ordinal to the capacity of that segment.
type Policy interface {
	// CapacityOf returns the capacity of segment ordinal (>= 0).
	// Implementations must be pure, monotonically non-decreasing and >= 1.
	CapacityOf(ordinal int) int
	// StartCapacity returns the capacity of segment 0.
	StartCapacity() int
	// GrowthRate returns the multiplier between consecutive segments.
	GrowthRate() float64
}

// Validate checks the two policy parameters without building a policy.
func Validate(startCapacity int, growthRate float64) error {
	if startCapacity < 1 {
		return &ErrInvalidStartCapacity{StartCapacity: startCapacity}
	}
	if math.IsNaN(growthRate) || math.IsInf(growthRate, 0) || growthRate < 1.0 {
		return &ErrInvalidGrowthRate{GrowthRate: growthRate}
	}
	return nil
}

// New returns the built-in policy for the given parameters.
// Rates of exactly 1.0 and 2.0 get integer-only implementations.
func New(startCapacity int, growthRate float64) (Policy, error) {
	if err := Validate(startCapacity, growthRate); err != nil {
		return nil, err
	}
	switch growthRate {
	case 1.0:
		return &Uniform{start: startCapacity}, nil
	case 2.0:
		return &Doubling{start: startCapacity}, nil
	default:
		return &Geometric{start: startCapacity, rate: growthRate}, nil
	}
}

// Default returns the policy used when no configuration is given.
func Default() Policy {
	return &Doubling{start: DefaultStartCapacity}
}

// Uniform sizes every segment equally.
type Uniform struct {
	start int
}

// NewUniform returns a Uniform policy. It panics if startCapacity < 1.
func NewUniform(startCapacity int) *Uniform {
	if startCapacity < 1 {
		panic(&ErrInvalidStartCapacity{StartCapacity: startCapacity})
	}
	return &Uniform{start: startCapacity}
}

func (p *Uniform) CapacityOf(int) int  { return p.start }
func (p *Uniform) StartCapacity() int  { return p.start }
func (p *Uniform) GrowthRate() float64 { return 1.0 }

// Doubling sizes segment i as StartCapacity << i.
type Doubling struct {
	start int
}

// NewDoubling returns a Doubling policy. It panics if startCapacity < 1.
func NewDoubling(startCapacity int) *Doubling {
	if startCapacity < 1 {
		panic(&ErrInvalidStartCapacity{StartCapacity: startCapacity})
	}
	return &Doubling{start: startCapacity}
}

func (p *Doubling) CapacityOf(ordinal int) int { return conv.MustShl(p.start, ordinal) }
func (p *Doubling) StartCapacity() int         { return p.start }
func (p *Doubling) GrowthRate() float64        { return 2.0 }

// Geometric sizes segment i as round(StartCapacity * rate^i), at least 1.
type Geometric struct {
	start int
	rate  float64
}

// NewGeometric returns a Geometric policy or a validation error.
// Unlike New it never substitutes Uniform or Doubling.
func NewGeometric(startCapacity int, growthRate float64) (*Geometric, error) {
	if err := Validate(startCapacity, growthRate); err != nil {
		return nil, err
	}
	return &Geometric{start: startCapacity, rate: growthRate}, nil
}

func (p *Geometric) CapacityOf(ordinal int) int {
	if ordinal == 0 {
		return p.start
	}
	c := math.Round(float64(p.start) * math.Pow(p.rate, float64(ordinal)))
	if c < 1 {
		return 1
	}
	return conv.MustFloatToInt(c)
}

func (p *Geometric) StartCapacity() int  { return p.start }
func (p *Geometric) GrowthRate() float64 { return p.rate }

// Cumulative returns the total capacity of segments [0, n).
// It panics with *conv.OverflowError if the sum exceeds the int range.
func Cumulative(p Policy, n int) int {
	switch p := p.(type) {
	case *Uniform:
		return conv.MustMul(p.start, n)
	case *Doubling:
		// start * (2^n - 1)
		if n == 0 {
			return 0
		}
		return conv.MustMul(p.start, conv.MustShl(1, n)-1)
	}
	total := 0
	for i := 0; i < n; i++ {
		total = conv.MustAdd(total, p.CapacityOf(i))
	}
	return total
}

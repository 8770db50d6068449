// Package growth defines how the segments of a bucket vector are sized.
//
// A Policy maps a segment ordinal to that segment's capacity. Policies must be
// pure: the index resolver inverts the cumulative capacity function in closed
// form and relies on CapacityOf returning the same value for the same ordinal
// for the whole lifetime of a container.
//
// New selects one of three built-in policies:
//
//   - Uniform (growth rate 1.0): every segment holds StartCapacity elements.
//   - Doubling (growth rate 2.0): segment i holds StartCapacity << i elements,
//     computed with integer shifts only.
//   - Geometric (any other rate): segment i holds round(StartCapacity * rate^i)
//     elements, never less than 1.
//
// Custom policies may be supplied by implementing Policy; they must be
// monotonically non-decreasing and never return less than 1.
package growth

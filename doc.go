// Package bucketvec provides Vec, a growable append-only sequence that never
// moves its elements.
//
// A regular slice reallocates its backing array when it grows, so pointers
// into it go stale. Vec instead stores elements in a list of fixed-capacity
// segments and only ever allocates new segments:
//
//	start capacity 1, growth rate 2, elements A..K pushed:
//
//	[A] [B C] [D E F G] [H I J K _ _ _ _]
//
// Pushing L..O fills the last segment; pushing P allocates a fifth segment of
// capacity 16. A, B and every other element keep their address.
//
// # Quick Start
//
//	v, _ := bucketvec.New[string]()           // start capacity 4, growth rate 2
//	a := v.PushGet("hello")
//	p := a.Ptr()                               // stays valid across pushes
//	v.Append("world", "!")
//	s, ok := v.Get(1)                          // "world", true
//
//	for i, p := range v.All() {                // push order
//	    *p = strings.ToUpper(*p)
//	    _ = i
//	}
//
// # Growth Policies
//
// Segment capacities come from a growth.Policy. Growth rates of exactly 1.0
// and 2.0 are resolved with integer arithmetic only; other rates estimate the
// segment with a logarithm and correct the estimate against exact prefix sums.
//
//	v, err := bucketvec.New[int](
//	    bucketvec.WithStartCapacity(16),
//	    bucketvec.WithGrowthRate(1.5),
//	)
//
// A start capacity below 1 or a growth rate below 1.0 is rejected with an
// error wrapping ErrInvalidConfig.
//
// # Errors and Panics
//
// Get, GetMut, First and Last report absent elements with ok == false.
// At and AtMut panic with *IndexOutOfRangeError. Capacity arithmetic that
// would overflow int panics with *conv.OverflowError; that only happens for a
// policy that is misconfigured for the number of elements stored.
//
// # Serialization
//
// The snapshot package encodes the logical element sequence of a Vec (or any
// type with Len and Values) and never sees segment boundaries.
package bucketvec

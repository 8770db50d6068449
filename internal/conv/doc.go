// Package conv provides overflow-checked integer arithmetic and conversions.
//
// Two flavours are offered:
//
//   - Checked conversions (Uint64ToInt, IntToUint64) return an error. They are
//     used where the input is untrusted, e.g. counts read back from a snapshot.
//   - Must* arithmetic (MustAdd, MustMul, MustShl, MustFloatToInt) panics with
//     an *OverflowError. Segment capacities and cumulative sums are derived
//     from the growth policy, so overflow there means the policy is
//     misconfigured for the element count and cannot be recovered from.
package conv

// Package resolver translates a global element index into a
// (segment ordinal, local offset) pair and back.
//
// Resolvers are derived from a growth.Policy alone; they never look at the
// segment store. Because a policy is pure, the store's layout and the
// resolver's arithmetic always agree.
//
//   - Uniform policies use integer division.
//   - Doubling policies use the position of the highest set bit.
//   - Geometric policies estimate the segment with the closed-form inverse of
//     the geometric series, then correct the estimate against the exact
//     (rounded) prefix sums. Rounding shifts each prefix sum by at most half
//     an element per segment, which for rates >= 1.5 is smaller than any
//     single segment, so the estimate is off by at most one segment. Rates
//     closer to 1 can drift by several segments; after maxCorrections failed
//     steps the lookup falls back to a binary search over the prefix sums.
//   - Any other policy uses the prefix table with binary search.
//
// Linear is the O(segments) cumulative scan used to verify the others.
package resolver

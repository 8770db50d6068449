// Package segment implements the segment store of a bucket vector.
//
// A Store owns an ordered list of independently allocated, fixed-capacity
// segments. Elements are appended to the last segment until it is full; then
// a new segment sized by the growth policy is allocated. A segment's backing
// array is allocated exactly once, so element addresses never change.
//
// The Store is not safe for concurrent use.
package segment

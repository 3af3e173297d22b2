// Package vector provides a growable, index-addressable integer container
// with explicit capacity management.
//
// The container owns a single contiguous block of slots. Appending past the
// end replaces the block with a larger one chosen by a [Growth] policy:
//
//   - [ExactFit]: grow to exactly the size needed (the default)
//   - [Geometric]: grow by a constant factor
//
// Exact-fit growth keeps spare capacity at zero but copies every live element
// on every append, so n appends cost O(n²) copies in total. Use [Geometric]
// when append throughput matters.
//
// # Example
//
//	v := vector.New()
//	v.PushBack(4)
//	v.PushBack(1)
//	*v.At(1) = 5
//	v.PopBack()
//	defer v.Release()
//
// # Thread Safety
//
// Vector instances are NOT safe for concurrent use. [BlockPool] is the only
// type in this package that may be shared between goroutines.
package vector

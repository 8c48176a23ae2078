// Package distance provides the Euclidean distance primitives used by the
// k-means variants.
//
// All functions operate on float64 slices of equal length. Length checks are
// the caller's responsibility; the hot paths never allocate.
//
// # Usage
//
//	d2 := distance.SquaredL2(point, center)
//	d := distance.L2(point, center)
package distance

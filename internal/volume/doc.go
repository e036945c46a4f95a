// Package volume addresses mesh elements by 3D volumes.
//
// A Descriptor names a box, sphere or cylinder with a center and an optional
// rotation. A Frame maps world points into the descriptor's local space, where
// the containment predicates are evaluated on the shape parameters alone:
//
//	box:      |x| <= hx && |y| <= hy && |z| <= hz
//	sphere:   |p| <= r
//	cylinder: sqrt(x²+y²) <= r && |z| <= h   (axis is local Z)
//
// All bounds are closed. Select preserves the input order of indices and never
// returns duplicates.
package volume

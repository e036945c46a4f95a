package volume

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the closed set of volume shapes.
type Kind int

const (
	KindBox Kind = iota + 1
	KindSphere
	KindCylinder
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindSphere:
		return "sphere"
	case KindCylinder:
		return "cylinder"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the defined shapes.
func (k Kind) Valid() bool {
	return k == KindBox || k == KindSphere || k == KindCylinder
}

// ParseKind maps a wire "type" value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "box":
		return KindBox, nil
	case "sphere":
		return KindSphere, nil
	case "cylinder":
		return KindCylinder, nil
	}
	return 0, &UnsupportedKindError{Kind: s}
}

// UnsupportedKindError is returned for any shape outside the closed set.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported volume type: %s", e.Kind)
}

// ErrNotAMesh is returned when the target has no polygonal mesh representation.
var ErrNotAMesh = errors.New("object must be a mesh")

// InvalidError reports a non-finite or negative shape parameter, or a zero rotation.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid volume %s: %s", e.Field, e.Reason)
}

// Descriptor is an immutable shape + pose. Only the fields of its Kind are
// meaningful; construct it with Box, Sphere or Cylinder.
type Descriptor struct {
	Kind        Kind
	Center      Vec3
	HalfExtents Vec3    // box
	Radius      float64 // sphere, cylinder
	HalfHeight  float64 // cylinder

	rotation    Quat
	hasRotation bool
}

// Box builds a box descriptor from its full dimensions.
func Box(center, dimensions Vec3) Descriptor {
	return Descriptor{Kind: KindBox, Center: center, HalfExtents: dimensions.Scale(0.5)}
}

// Sphere builds a sphere descriptor.
func Sphere(center Vec3, radius float64) Descriptor {
	return Descriptor{Kind: KindSphere, Center: center, Radius: radius}
}

// Cylinder builds a Z-axis cylinder descriptor from its radius and full height.
func Cylinder(center Vec3, radius, height float64) Descriptor {
	return Descriptor{Kind: KindCylinder, Center: center, Radius: radius, HalfHeight: height / 2}
}

// WithRotation returns a copy of d rotated by q. q does not need to be unit length.
func (d Descriptor) WithRotation(q Quat) Descriptor {
	d.rotation = q
	d.hasRotation = true
	return d
}

// Rotation returns the rotation, if one was given.
func (d Descriptor) Rotation() (Quat, bool) {
	return d.rotation, d.hasRotation
}

// Validate checks that every shape parameter is finite and non-negative.
// Zero extents are legal and describe a degenerate volume.
func (d Descriptor) Validate() error {
	if !d.Kind.Valid() {
		return &UnsupportedKindError{Kind: d.Kind.String()}
	}
	for i, c := range d.Center {
		if !finite(c) {
			return &InvalidError{Field: fmt.Sprintf("center[%d]", i), Reason: "must be finite"}
		}
	}
	switch d.Kind {
	case KindBox:
		for i, h := range d.HalfExtents {
			if err := checkExtent(fmt.Sprintf("dimensions[%d]", i), h); err != nil {
				return err
			}
		}
	case KindSphere:
		if err := checkExtent("radius", d.Radius); err != nil {
			return err
		}
	case KindCylinder:
		if err := checkExtent("radius", d.Radius); err != nil {
			return err
		}
		if err := checkExtent("height", d.HalfHeight); err != nil {
			return err
		}
	}
	if d.hasRotation {
		for _, c := range d.rotation {
			if !finite(c) {
				return &InvalidError{Field: "rotation", Reason: "must be finite"}
			}
		}
		if d.rotation.Norm() == 0 {
			return &InvalidError{Field: "rotation", Reason: "quaternion must be non-zero"}
		}
	}
	return nil
}

func checkExtent(field string, v float64) error {
	if !finite(v) {
		return &InvalidError{Field: field, Reason: "must be finite"}
	}
	if v < 0 {
		return &InvalidError{Field: field, Reason: "must be non-negative"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package volume

import (
	"fmt"
	"math"
)

// Point is one addressable element position in world space.
type Point struct {
	Index int
	Pos   Vec3
}

// Space selects which element index space a selection is made in.
type Space int

const (
	Vertices Space = iota + 1
	Faces
)

func (s Space) String() string {
	switch s {
	case Vertices:
		return "vertices"
	case Faces:
		return "faces"
	}
	return fmt.Sprintf("space(%d)", int(s))
}

// Source exposes the element positions of one mesh snapshot. Face positions are
// the centroids of their boundary vertices.
type Source interface {
	IsMesh() bool
	VertexPositions() []Point
	FaceCenters() []Point
}

// Contains reports whether the local-space point l lies in the closed volume.
func Contains(d Descriptor, l Vec3) (bool, error) {
	switch d.Kind {
	case KindBox:
		h := d.HalfExtents
		return math.Abs(l[0]) <= h[0] && math.Abs(l[1]) <= h[1] && math.Abs(l[2]) <= h[2], nil
	case KindSphere:
		return l.Len() <= d.Radius, nil
	case KindCylinder:
		return math.Hypot(l[0], l[1]) <= d.Radius && math.Abs(l[2]) <= d.HalfHeight, nil
	}
	return false, &UnsupportedKindError{Kind: d.Kind.String()}
}

// Select returns the indices of points inside d, in input order, without duplicates.
func Select(points []Point, d Descriptor) ([]int, error) {
	if !d.Kind.Valid() {
		return nil, &UnsupportedKindError{Kind: d.Kind.String()}
	}
	f := NewFrame(d)
	out := make([]int, 0)
	seen := make(map[int]struct{}, len(points))
	for _, p := range points {
		if _, dup := seen[p.Index]; dup {
			continue
		}
		in, err := Contains(d, f.ToLocal(p.Pos))
		if err != nil {
			return nil, err
		}
		if in {
			seen[p.Index] = struct{}{}
			out = append(out, p.Index)
		}
	}
	return out, nil
}

// SelectVertices selects the vertices of src inside d.
func SelectVertices(src Source, d Descriptor) ([]int, error) {
	return SelectIn(src, Vertices, d)
}

// SelectFaces selects the faces of src whose centers lie inside d.
func SelectFaces(src Source, d Descriptor) ([]int, error) {
	return SelectIn(src, Faces, d)
}

// SelectIn selects elements of the given space. Positions are read from src at
// call time, so a selection always reflects the current mesh state.
func SelectIn(src Source, space Space, d Descriptor) ([]int, error) {
	if src == nil || !src.IsMesh() {
		return nil, ErrNotAMesh
	}
	switch space {
	case Vertices:
		return Select(src.VertexPositions(), d)
	case Faces:
		return Select(src.FaceCenters(), d)
	}
	return nil, fmt.Errorf("unknown element space %s", space)
}

// WithinBounds reports whether center lies inside [min, max] expanded by tolerance
// on every axis.
func WithinBounds(center, min, max Vec3, tolerance float64) bool {
	for i := range center {
		if center[i] < min[i]-tolerance || center[i] > max[i]+tolerance {
			return false
		}
	}
	return true
}

package metrics

import (
	"math"

	"github.com/petasbytes/go-meshedit/internal/volume"
)

// Stats holds element counts and the axis-aligned world bounds of a mesh.
type Stats struct {
	Vertices int
	Faces    int
	Min      volume.Vec3
	Max      volume.Vec3
}

// Empty reports whether the mesh has no vertices (bounds are then zero).
func (s Stats) Empty() bool { return s.Vertices == 0 }

// Size returns the extent of the bounds along each axis.
func (s Stats) Size() volume.Vec3 { return s.Max.Sub(s.Min) }

// Center returns the midpoint of the bounds.
func (s Stats) Center() volume.Vec3 { return s.Min.Add(s.Max).Scale(0.5) }

// Summarize computes counts and world bounds for src. A nil source or one
// that is not a mesh yields zero Stats.
func Summarize(src volume.Source) Stats {
	if src == nil || !src.IsMesh() {
		return Stats{}
	}
	verts := src.VertexPositions()
	st := Stats{Vertices: len(verts), Faces: len(src.FaceCenters())}
	if len(verts) == 0 {
		return st
	}
	st.Min = volume.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	st.Max = volume.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range verts {
		for i := 0; i < 3; i++ {
			st.Min[i] = math.Min(st.Min[i], p.Pos[i])
			st.Max[i] = math.Max(st.Max[i], p.Pos[i])
		}
	}
	return st
}

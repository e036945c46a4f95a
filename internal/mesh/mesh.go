// Package mesh is an in-memory polygon mesh with an Editor that implements
// every edit operation the dispatcher forwards.
package mesh

import (
	"github.com/petasbytes/go-meshedit/internal/volume"
)

// Face is one polygon: vertex indices in winding order plus its material.
type Face struct {
	Verts    []int
	Material string
}

// Mesh is a polygon mesh. Vertex and face indices are positions in the slices.
type Mesh struct {
	Vertices []volume.Vec3
	Faces    []Face
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: append([]volume.Vec3(nil), m.Vertices...),
		Faces:    make([]Face, len(m.Faces)),
	}
	for i, f := range m.Faces {
		out.Faces[i] = Face{Verts: append([]int(nil), f.Verts...), Material: f.Material}
	}
	return out
}

func (m *Mesh) IsMesh() bool { return m != nil }

func (m *Mesh) VertexPositions() []volume.Point {
	out := make([]volume.Point, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = volume.Point{Index: i, Pos: v}
	}
	return out
}

// FaceCenters returns the centroid of each face's boundary vertices.
func (m *Mesh) FaceCenters() []volume.Point {
	out := make([]volume.Point, len(m.Faces))
	for i := range m.Faces {
		out[i] = volume.Point{Index: i, Pos: m.centroid(m.Faces[i].Verts)}
	}
	return out
}

func (m *Mesh) centroid(idx []int) volume.Vec3 {
	var c volume.Vec3
	if len(idx) == 0 {
		return c
	}
	for _, vi := range idx {
		c = c.Add(m.Vertices[vi])
	}
	return c.Scale(1 / float64(len(idx)))
}

func (m *Mesh) addVertex(v volume.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// Object is a named scene object. Objects without geometry are not meshes and
// cannot be edited.
type Object struct {
	Name string
	Mesh *Mesh
}

func (o Object) IsMesh() bool { return o.Mesh != nil }

func (o Object) VertexPositions() []volume.Point {
	if o.Mesh == nil {
		return nil
	}
	return o.Mesh.VertexPositions()
}

func (o Object) FaceCenters() []volume.Point {
	if o.Mesh == nil {
		return nil
	}
	return o.Mesh.FaceCenters()
}

// Cube returns an axis-aligned cube of the given edge length centered at c,
// with outward-facing quads.
func Cube(c volume.Vec3, size float64) *Mesh {
	h := size / 2
	m := &Mesh{}
	for _, p := range [8]volume.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	} {
		m.addVertex(c.Add(p))
	}
	for _, f := range [6][4]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{2, 3, 7, 6}, // +Y
		{1, 2, 6, 5}, // +X
		{3, 0, 4, 7}, // -X
	} {
		m.Faces = append(m.Faces, Face{Verts: append([]int(nil), f[:]...)})
	}
	return m
}

// Grid returns an n×n grid of unit quads in the XY plane at z, starting at the origin.
func Grid(n int, z float64) *Mesh {
	m := &Mesh{}
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.addVertex(volume.Vec3{float64(x), float64(y), z})
		}
	}
	row := n + 1
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			a := y*row + x
			m.Faces = append(m.Faces, Face{Verts: []int{a, a + 1, a + row + 1, a + row}})
		}
	}
	return m
}

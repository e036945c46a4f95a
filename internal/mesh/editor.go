package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/petasbytes/go-meshedit/internal/command"
	"github.com/petasbytes/go-meshedit/internal/volume"
)

// MaxSubdivisionLevel bounds subdivision; each level quadruples quad count.
const MaxSubdivisionLevel = 6

// IndexError reports a selection index outside the mesh.
type IndexError struct {
	Space volume.Space
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Space, e.Index, e.Len)
}

// Editor applies edit operations to one mesh in place.
type Editor struct {
	m *Mesh
}

// NewEditor returns an Editor mutating m.
func NewEditor(m *Mesh) *Editor {
	return &Editor{m: m}
}

// Mesh returns the mesh being edited.
func (e *Editor) Mesh() *Mesh { return e.m }

// Reset switches the editor to m.
func (e *Editor) Reset(m *Mesh) { e.m = m }

func (e *Editor) IsMesh() bool                    { return e.m.IsMesh() }
func (e *Editor) VertexPositions() []volume.Point { return e.m.VertexPositions() }
func (e *Editor) FaceCenters() []volume.Point     { return e.m.FaceCenters() }

func (e *Editor) checkVerts(sel []int) error {
	if e.m == nil {
		return volume.ErrNotAMesh
	}
	for _, i := range sel {
		if i < 0 || i >= len(e.m.Vertices) {
			return &IndexError{Space: volume.Vertices, Index: i, Len: len(e.m.Vertices)}
		}
	}
	return nil
}

func (e *Editor) checkFaces(sel []int) error {
	if e.m == nil {
		return volume.ErrNotAMesh
	}
	for _, i := range sel {
		if i < 0 || i >= len(e.m.Faces) {
			return &IndexError{Space: volume.Faces, Index: i, Len: len(e.m.Faces)}
		}
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ExtrudeFaces extrudes the selected faces as one region: their vertices are
// duplicated and moved by the vector, and side walls are added along the
// region boundary.
func (e *Editor) ExtrudeFaces(faces []int, p command.ExtrudeParams) error {
	if err := e.checkFaces(faces); err != nil {
		return err
	}
	if !finite(p.Vector[:]...) {
		return errors.New("extrude vector must be finite")
	}
	faces = unique(faces)
	if len(faces) == 0 {
		return nil
	}

	type edge struct{ a, b int }
	count := make(map[edge]int)
	key := func(a, b int) edge {
		if a > b {
			a, b = b, a
		}
		return edge{a, b}
	}
	for _, fi := range faces {
		vs := e.m.Faces[fi].Verts
		for i := range vs {
			count[key(vs[i], vs[(i+1)%len(vs)])]++
		}
	}

	moved := make(map[int]int)
	lift := func(vi int) int {
		if ni, ok := moved[vi]; ok {
			return ni
		}
		ni := e.m.addVertex(e.m.Vertices[vi].Add(p.Vector))
		moved[vi] = ni
		return ni
	}

	var walls []Face
	for _, fi := range faces {
		f := &e.m.Faces[fi]
		old := append([]int(nil), f.Verts...)
		for _, vi := range old {
			lift(vi)
		}
		for i, a := range old {
			b := old[(i+1)%len(old)]
			if count[key(a, b)] == 1 {
				walls = append(walls, Face{Verts: []int{a, b, lift(b), lift(a)}, Material: f.Material})
			}
		}
		for i, vi := range old {
			f.Verts[i] = lift(vi)
		}
	}
	e.m.Faces = append(e.m.Faces, walls...)
	return nil
}

// ScaleVertices scales the selected vertices about pivot.
func (e *Editor) ScaleVertices(verts []int, p command.ScaleParams, pivot volume.Vec3) error {
	if err := e.checkVerts(verts); err != nil {
		return err
	}
	if !finite(p.Factor) {
		return errors.New("scale factor must be finite")
	}
	for _, vi := range unique(verts) {
		v := e.m.Vertices[vi]
		e.m.Vertices[vi] = pivot.Add(v.Sub(pivot).Scale(p.Factor))
	}
	return nil
}

// TransformVertices applies the affine matrix to the selected vertices in world space.
func (e *Editor) TransformVertices(verts []int, p command.TransformParams) error {
	if err := e.checkVerts(verts); err != nil {
		return err
	}
	if !finite(p.Matrix[:]...) {
		return errors.New("transform matrix must be finite")
	}
	for _, vi := range unique(verts) {
		e.m.Vertices[vi] = p.Matrix.MulPoint(e.m.Vertices[vi])
	}
	return nil
}

// ApplyMaterial assigns the material to the selected faces.
func (e *Editor) ApplyMaterial(faces []int, p command.MaterialParams) error {
	if err := e.checkFaces(faces); err != nil {
		return err
	}
	if p.Name == "" {
		return errors.New("material name is empty")
	}
	for _, fi := range faces {
		e.m.Faces[fi].Material = p.Name
	}
	return nil
}

// DeformLattice applies the 3×3 matrix to the selected vertices relative to center.
func (e *Editor) DeformLattice(verts []int, p command.DeformParams, center volume.Vec3) error {
	if err := e.checkVerts(verts); err != nil {
		return err
	}
	if !finite(p.Matrix[:]...) {
		return errors.New("deformation matrix must be finite")
	}
	for _, vi := range unique(verts) {
		local := e.m.Vertices[vi].Sub(center)
		e.m.Vertices[vi] = center.Add(p.Matrix.MulVec3(local))
	}
	return nil
}

// SubdivideFaces splits each selected face into quads around its centroid,
// once per level. Edge midpoints are shared between selected faces.
func (e *Editor) SubdivideFaces(faces []int, p command.SubdivideParams) error {
	if err := e.checkFaces(faces); err != nil {
		return err
	}
	if p.Level < 0 || p.Level > MaxSubdivisionLevel {
		return fmt.Errorf("subdivision level %d outside [0,%d]", p.Level, MaxSubdivisionLevel)
	}
	sel := unique(faces)
	for level := 0; level < p.Level; level++ {
		sel = e.subdivideOnce(sel)
	}
	return nil
}

func (e *Editor) subdivideOnce(faces []int) []int {
	type edge struct{ a, b int }
	mids := make(map[edge]int)
	mid := func(a, b int) int {
		k := edge{a, b}
		if a > b {
			k = edge{b, a}
		}
		if vi, ok := mids[k]; ok {
			return vi
		}
		vi := e.m.addVertex(e.m.Vertices[a].Add(e.m.Vertices[b]).Scale(0.5))
		mids[k] = vi
		return vi
	}

	next := make([]int, 0, len(faces)*4)
	for _, fi := range faces {
		f := e.m.Faces[fi]
		n := len(f.Verts)
		if n < 3 {
			next = append(next, fi)
			continue
		}
		c := e.m.addVertex(e.m.centroid(f.Verts))
		m := make([]int, n)
		for i := range f.Verts {
			m[i] = mid(f.Verts[i], f.Verts[(i+1)%n])
		}
		for i := 0; i < n; i++ {
			quad := Face{Verts: []int{f.Verts[i], m[i], c, m[(i+n-1)%n]}, Material: f.Material}
			if i == 0 {
				e.m.Faces[fi] = quad
				next = append(next, fi)
				continue
			}
			e.m.Faces = append(e.m.Faces, quad)
			next = append(next, len(e.m.Faces)-1)
		}
	}
	return next
}

// InsetFaces insets each selected face individually: its vertices move toward
// the face centroid by depth and a ring of quads bridges old and new borders.
func (e *Editor) InsetFaces(faces []int, p command.InsetParams) error {
	if err := e.checkFaces(faces); err != nil {
		return err
	}
	if !finite(p.Depth) || p.Depth < 0 {
		return fmt.Errorf("inset depth must be finite and non-negative, got %g", p.Depth)
	}
	for _, fi := range unique(faces) {
		f := e.m.Faces[fi]
		n := len(f.Verts)
		if n < 3 {
			continue
		}
		c := e.m.centroid(f.Verts)
		inner := make([]int, n)
		for i, vi := range f.Verts {
			v := e.m.Vertices[vi]
			toC := c.Sub(v)
			d := toC.Len()
			step := math.Min(p.Depth, d)
			pos := v
			if d > 0 {
				pos = v.Add(toC.Scale(step / d))
			}
			inner[i] = e.m.addVertex(pos)
		}
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			e.m.Faces = append(e.m.Faces, Face{
				Verts:    []int{f.Verts[i], f.Verts[j], inner[j], inner[i]},
				Material: f.Material,
			})
		}
		e.m.Faces[fi] = Face{Verts: inner, Material: f.Material}
	}
	return nil
}

// unique drops repeated indices, keeping first occurrences in order.
func unique(idx []int) []int {
	seen := make(map[int]struct{}, len(idx))
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out
}

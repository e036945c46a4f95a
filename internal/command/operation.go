package command

import (
	"fmt"

	"github.com/petasbytes/go-meshedit/internal/volume"
)

// OperationKind is the closed set of edit operations.
type OperationKind int

const (
	ExtrudeFaces OperationKind = iota + 1
	ScaleVertices
	TransformVertices
	ApplyMaterial
	DeformLattice
	SubdivideFaces
	InsetFaces
)

var operationNames = map[OperationKind]string{
	ExtrudeFaces:      "extrude_faces_in_volume",
	ScaleVertices:     "scale_vertices_in_volume",
	TransformVertices: "transform_vertices_in_volume",
	ApplyMaterial:     "apply_material_to_volume",
	DeformLattice:     "deform_volume_lattice",
	SubdivideFaces:    "subdivide_faces_in_volume",
	InsetFaces:        "inset_faces_in_volume",
}

// Operations returns every operation in declaration order.
func Operations() []OperationKind {
	return []OperationKind{
		ExtrudeFaces, ScaleVertices, TransformVertices, ApplyMaterial,
		DeformLattice, SubdivideFaces, InsetFaces,
	}
}

// String returns the wire function_name.
func (k OperationKind) String() string {
	if n, ok := operationNames[k]; ok {
		return n
	}
	return fmt.Sprintf("operation(%d)", int(k))
}

// Valid reports whether k is one of the defined operations.
func (k OperationKind) Valid() bool {
	_, ok := operationNames[k]
	return ok
}

// Space is the element space the operation selects in.
func (k OperationKind) Space() volume.Space {
	switch k {
	case ScaleVertices, TransformVertices, DeformLattice:
		return volume.Vertices
	}
	return volume.Faces
}

// UnknownOperationError reports a function_name outside the closed set.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("Unknown function: %s", e.Name)
}

// ParseOperation maps a wire function_name to its OperationKind.
func ParseOperation(name string) (OperationKind, error) {
	for k, n := range operationNames {
		if n == name {
			return k, nil
		}
	}
	return 0, &UnknownOperationError{Name: name}
}

package command

import "github.com/petasbytes/go-meshedit/internal/volume"

// Defaults applied when an operation parameter is omitted.
const (
	DefaultScaleFactor      = 1.0
	DefaultMaterialName     = "DefaultMaterial"
	DefaultSubdivisionLevel = 1
	DefaultInsetDepth       = 0.1
)

// DefaultExtrudeVector is +Z.
var DefaultExtrudeVector = volume.Vec3{0, 0, 1}

// Params is the operation-specific payload of a Command. The set of
// implementations is closed; each one names the operation it belongs to.
type Params interface {
	Operation() OperationKind
	isParams()
}

type ExtrudeParams struct {
	Vector volume.Vec3
}

type ScaleParams struct {
	Factor float64
}

// TransformParams holds a row-major affine 4×4 matrix.
type TransformParams struct {
	Matrix volume.Mat4
}

type MaterialParams struct {
	Name string
}

// DeformParams holds a row-major 3×3 lattice matrix applied about the volume center.
type DeformParams struct {
	Matrix volume.Mat3
}

type SubdivideParams struct {
	Level int
}

type InsetParams struct {
	Depth float64
}

func (ExtrudeParams) Operation() OperationKind   { return ExtrudeFaces }
func (ScaleParams) Operation() OperationKind     { return ScaleVertices }
func (TransformParams) Operation() OperationKind { return TransformVertices }
func (MaterialParams) Operation() OperationKind  { return ApplyMaterial }
func (DeformParams) Operation() OperationKind    { return DeformLattice }
func (SubdivideParams) Operation() OperationKind { return SubdivideFaces }
func (InsetParams) Operation() OperationKind     { return InsetFaces }

func (ExtrudeParams) isParams()   {}
func (ScaleParams) isParams()     {}
func (TransformParams) isParams() {}
func (MaterialParams) isParams()  {}
func (DeformParams) isParams()    {}
func (SubdivideParams) isParams() {}
func (InsetParams) isParams()     {}

// DefaultParams returns the parameters used when every key of op is omitted.
func DefaultParams(op OperationKind) Params {
	switch op {
	case ExtrudeFaces:
		return ExtrudeParams{Vector: DefaultExtrudeVector}
	case ScaleVertices:
		return ScaleParams{Factor: DefaultScaleFactor}
	case TransformVertices:
		return TransformParams{Matrix: volume.Mat4Identity()}
	case ApplyMaterial:
		return MaterialParams{Name: DefaultMaterialName}
	case DeformLattice:
		return DeformParams{Matrix: volume.Mat3Identity()}
	case SubdivideFaces:
		return SubdivideParams{Level: DefaultSubdivisionLevel}
	case InsetFaces:
		return InsetParams{Depth: DefaultInsetDepth}
	}
	return nil
}

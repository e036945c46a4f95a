package tools

import (
	"github.com/invopop/jsonschema"
)

// VolumeInput addresses a region of the mesh.
type VolumeInput struct {
	Type          string    `json:"type" jsonschema:"volume shape" jsonschema_description:"Volume shape: box, sphere or cylinder."`
	CenterXYZ     []float64 `json:"center_xyz" jsonschema:"world-space center [x y z]" jsonschema_description:"World-space center [x, y, z]."`
	DimensionsXYZ []float64 `json:"dimensions_xyz,omitempty" jsonschema:"full extents for box and cylinder" jsonschema_description:"Full extents [dx, dy, dz]. Required for box and cylinder; a cylinder uses dx as radius and dz as height."`
	Radius        *float64  `json:"radius,omitempty" jsonschema:"sphere radius or cylinder radius override" jsonschema_description:"Sphere radius. For a cylinder, overrides dimensions_xyz[0]."`
	RotationWXYZ  []float64 `json:"rotation_quaternion_wxyz,omitempty" jsonschema:"optional rotation quaternion" jsonschema_description:"Optional rotation quaternion [w, x, y, z]; identity when absent."`
}

// JSONSchemaExtend adds the constraints struct tags cannot carry.
func (VolumeInput) JSONSchemaExtend(s *jsonschema.Schema) {
	if p, ok := s.Properties.Get("type"); ok {
		p.Enum = []any{"box", "sphere", "cylinder"}
	}
	for name, n := range map[string]uint64{"center_xyz": 3, "dimensions_xyz": 3, "rotation_quaternion_wxyz": 4} {
		if p, ok := s.Properties.Get(name); ok {
			p.MinItems = &n
			p.MaxItems = &n
		}
	}
}

type ExtrudeInput struct {
	VolumeIdentifier VolumeInput `json:"volume_identifier"`
	ExtrudeVector    []float64   `json:"extrude_vector,omitempty" jsonschema:"extrusion offset" jsonschema_description:"Extrusion offset [x, y, z]. Default [0, 0, 1]."`
}

type ScaleInput struct {
	VolumeIdentifier VolumeInput `json:"volume_identifier"`
	ScaleFactor      *float64    `json:"scale_factor,omitempty" jsonschema:"uniform scale about the volume center" jsonschema_description:"Uniform scale about the volume center. Default 1.0."`
}

type TransformInput struct {
	VolumeIdentifier VolumeInput `json:"volume_identifier"`
	TransformMatrix  [][]float64 `json:"transform_matrix,omitempty" jsonschema:"row-major 4x4 affine matrix" jsonschema_description:"Row-major 4x4 affine matrix applied in world space. Default identity."`
}

type MaterialInput struct {
	VolumeIdentifier VolumeInput `json:"volume_identifier"`
	MaterialName     string      `json:"material_name,omitempty" jsonschema:"material to assign" jsonschema_description:"Material to assign. Default \"DefaultMaterial\"."`
}

type DeformInput struct {
	VolumeIdentifier  VolumeInput `json:"volume_identifier"`
	DeformationMatrix [][]float64 `json:"deformation_matrix,omitempty" jsonschema:"row-major 3x3 lattice matrix" jsonschema_description:"Row-major 3x3 matrix applied about the volume center. Default identity."`
}

type SubdivideInput struct {
	VolumeIdentifier VolumeInput `json:"volume_identifier"`
	SubdivisionLevel *int        `json:"subdivision_level,omitempty" jsonschema:"number of subdivision passes" jsonschema_description:"Number of subdivision passes. Default 1."`
}

type InsetInput struct {
	VolumeIdentifier VolumeInput `json:"volume_identifier"`
	InsetDepth       *float64    `json:"inset_depth,omitempty" jsonschema:"inset distance" jsonschema_description:"Distance each face border moves inward. Default 0.1."`
}

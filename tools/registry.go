package tools

import (
	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/go-meshedit/internal/command"
)

var (
	ExtrudeDefinition = ToolDefinition{
		Name:        command.ExtrudeFaces.String(),
		Description: "Extrude the faces whose centers lie inside a volume, as one region, by an offset vector.",
		InputSchema: GenerateSchema[ExtrudeInput](),
		Operation:   command.ExtrudeFaces,
	}
	ScaleDefinition = ToolDefinition{
		Name:        command.ScaleVertices.String(),
		Description: "Scale the vertices inside a volume uniformly about the volume center.",
		InputSchema: GenerateSchema[ScaleInput](),
		Operation:   command.ScaleVertices,
	}
	TransformDefinition = ToolDefinition{
		Name:        command.TransformVertices.String(),
		Description: "Apply a 4x4 affine matrix to the vertices inside a volume.",
		InputSchema: GenerateSchema[TransformInput](),
		Operation:   command.TransformVertices,
	}
	MaterialDefinition = ToolDefinition{
		Name:        command.ApplyMaterial.String(),
		Description: "Assign a material to the faces whose centers lie inside a volume.",
		InputSchema: GenerateSchema[MaterialInput](),
		Operation:   command.ApplyMaterial,
	}
	DeformDefinition = ToolDefinition{
		Name:        command.DeformLattice.String(),
		Description: "Deform the vertices inside a volume with a 3x3 lattice matrix about the volume center.",
		InputSchema: GenerateSchema[DeformInput](),
		Operation:   command.DeformLattice,
	}
	SubdivideDefinition = ToolDefinition{
		Name:        command.SubdivideFaces.String(),
		Description: "Subdivide the faces whose centers lie inside a volume.",
		InputSchema: GenerateSchema[SubdivideInput](),
		Operation:   command.SubdivideFaces,
	}
	InsetDefinition = ToolDefinition{
		Name:        command.InsetFaces.String(),
		Description: "Inset each face whose center lies inside a volume by a distance.",
		InputSchema: GenerateSchema[InsetInput](),
		Operation:   command.InsetFaces,
	}
)

// Registry returns one tool per operation, in operation order.
func Registry() []ToolDefinition {
	return []ToolDefinition{
		ExtrudeDefinition,
		ScaleDefinition,
		TransformDefinition,
		MaterialDefinition,
		DeformDefinition,
		SubdivideDefinition,
		InsetDefinition,
	}
}

// Lookup finds a tool by name.
func Lookup(name string) (ToolDefinition, bool) {
	for _, d := range Registry() {
		if d.Name == name {
			return d, true
		}
	}
	return ToolDefinition{}, false
}

// Params converts defs for a Messages API request.
func Params(defs []ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Param())
	}
	return out
}

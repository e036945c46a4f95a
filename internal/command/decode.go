package command

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/petasbytes/go-meshedit/internal/volume"
)

// Format is the encoding of a batch document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// DecodeDocument parses a batch document into a JSON-compatible tree
// (map[string]any, []any, float64, string, bool, nil).
func DecodeDocument(data []byte, f Format) (any, error) {
	if f == FormatYAML {
		var y any
		if err := yaml.Unmarshal(data, &y); err != nil {
			return nil, fmt.Errorf("parse yaml batch: %w", err)
		}
		// Round-trip through JSON so numbers and maps match the JSON decoder.
		b, err := json.Marshal(y)
		if err != nil {
			return nil, fmt.Errorf("normalise yaml batch: %w", err)
		}
		data = b
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json batch: %w", err)
	}
	return doc, nil
}

// Parse turns a wire call into a typed Command. Unknown function names return
// *UnknownOperationError; malformed volumes or parameters return descriptive errors.
func Parse(c Call) (Command, error) {
	op, err := ParseOperation(c.FunctionName)
	if err != nil {
		return Command{}, err
	}
	params := gjson.ParseBytes(c.Parameters)
	if !params.IsObject() {
		return Command{}, fmt.Errorf("parameters must be an object")
	}
	vid := params.Get("volume_identifier")
	if !vid.Exists() {
		return Command{}, fmt.Errorf("missing parameters.volume_identifier")
	}
	vol, err := ParseVolume(vid)
	if err != nil {
		return Command{}, err
	}
	p, err := parseParams(op, params)
	if err != nil {
		return Command{}, err
	}
	return New(op, vol, p)
}

// ParseVolume decodes a volume_identifier object.
//
// Cylinders take their height from dimensions_xyz[2] and their radius from
// "radius" when present, otherwise from dimensions_xyz[0].
func ParseVolume(v gjson.Result) (volume.Descriptor, error) {
	if !v.IsObject() {
		return volume.Descriptor{}, fmt.Errorf("volume_identifier must be an object")
	}
	typ := v.Get("type")
	if typ.Type != gjson.String {
		return volume.Descriptor{}, fmt.Errorf("missing volume_identifier.type")
	}
	kind, err := volume.ParseKind(typ.String())
	if err != nil {
		return volume.Descriptor{}, err
	}
	center, err := vec3Field(v, "center_xyz")
	if err != nil {
		return volume.Descriptor{}, err
	}

	var d volume.Descriptor
	switch kind {
	case volume.KindBox:
		dims, err := vec3Field(v, "dimensions_xyz")
		if err != nil {
			return volume.Descriptor{}, err
		}
		d = volume.Box(center, dims)
	case volume.KindSphere:
		r, err := numberField(v, "radius")
		if err != nil {
			return volume.Descriptor{}, err
		}
		d = volume.Sphere(center, r)
	case volume.KindCylinder:
		dims, err := vec3Field(v, "dimensions_xyz")
		if err != nil {
			return volume.Descriptor{}, err
		}
		r := dims[0]
		if v.Get("radius").Exists() {
			if r, err = numberField(v, "radius"); err != nil {
				return volume.Descriptor{}, err
			}
		}
		d = volume.Cylinder(center, r, dims[2])
	}

	if rot := v.Get("rotation_quaternion_wxyz"); rot.Exists() {
		q, err := floats(rot, "rotation_quaternion_wxyz", 4)
		if err != nil {
			return volume.Descriptor{}, err
		}
		d = d.WithRotation(volume.Quat{q[0], q[1], q[2], q[3]})
	}
	if err := d.Validate(); err != nil {
		return volume.Descriptor{}, err
	}
	return d, nil
}

func parseParams(op OperationKind, p gjson.Result) (Params, error) {
	switch op {
	case ExtrudeFaces:
		out := ExtrudeParams{Vector: DefaultExtrudeVector}
		if p.Get("extrude_vector").Exists() {
			v, err := vec3Field(p, "extrude_vector")
			if err != nil {
				return nil, err
			}
			out.Vector = v
		}
		return out, nil
	case ScaleVertices:
		out := ScaleParams{Factor: DefaultScaleFactor}
		if p.Get("scale_factor").Exists() {
			f, err := numberField(p, "scale_factor")
			if err != nil {
				return nil, err
			}
			out.Factor = f
		}
		return out, nil
	case TransformVertices:
		out := TransformParams{Matrix: volume.Mat4Identity()}
		if m := p.Get("transform_matrix"); m.Exists() {
			vals, err := matrix(m, "transform_matrix", 4)
			if err != nil {
				return nil, err
			}
			copy(out.Matrix[:], vals)
		}
		return out, nil
	case ApplyMaterial:
		out := MaterialParams{Name: DefaultMaterialName}
		if m := p.Get("material_name"); m.Exists() {
			if m.Type != gjson.String || m.String() == "" {
				return nil, fmt.Errorf("material_name must be a non-empty string")
			}
			out.Name = m.String()
		}
		return out, nil
	case DeformLattice:
		out := DeformParams{Matrix: volume.Mat3Identity()}
		if m := p.Get("deformation_matrix"); m.Exists() {
			vals, err := matrix(m, "deformation_matrix", 3)
			if err != nil {
				return nil, err
			}
			copy(out.Matrix[:], vals)
		}
		return out, nil
	case SubdivideFaces:
		out := SubdivideParams{Level: DefaultSubdivisionLevel}
		if p.Get("subdivision_level").Exists() {
			f, err := numberField(p, "subdivision_level")
			if err != nil {
				return nil, err
			}
			if f != math.Trunc(f) {
				return nil, fmt.Errorf("subdivision_level must be an integer")
			}
			out.Level = int(f)
		}
		return out, nil
	case InsetFaces:
		out := InsetParams{Depth: DefaultInsetDepth}
		if p.Get("inset_depth").Exists() {
			f, err := numberField(p, "inset_depth")
			if err != nil {
				return nil, err
			}
			out.Depth = f
		}
		return out, nil
	}
	return nil, &UnknownOperationError{Name: op.String()}
}

func numberField(obj gjson.Result, key string) (float64, error) {
	r := obj.Get(key)
	if !r.Exists() {
		return 0, fmt.Errorf("missing %s", key)
	}
	if r.Type != gjson.Number {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return r.Float(), nil
}

func vec3Field(obj gjson.Result, key string) (volume.Vec3, error) {
	r := obj.Get(key)
	if !r.Exists() {
		return volume.Vec3{}, fmt.Errorf("missing %s", key)
	}
	vals, err := floats(r, key, 3)
	if err != nil {
		return volume.Vec3{}, err
	}
	return volume.Vec3{vals[0], vals[1], vals[2]}, nil
}

func floats(r gjson.Result, key string, n int) ([]float64, error) {
	if !r.IsArray() {
		return nil, fmt.Errorf("%s must be an array of %d numbers", key, n)
	}
	items := r.Array()
	if len(items) != n {
		return nil, fmt.Errorf("%s must have %d elements, got %d", key, n, len(items))
	}
	out := make([]float64, n)
	for i, it := range items {
		if it.Type != gjson.Number {
			return nil, fmt.Errorf("%s[%d] must be a number", key, i)
		}
		out[i] = it.Float()
	}
	return out, nil
}

// matrix reads an n×n array of rows into a row-major slice.
func matrix(r gjson.Result, key string, n int) ([]float64, error) {
	if !r.IsArray() || len(r.Array()) != n {
		return nil, fmt.Errorf("%s must be a %dx%d array", key, n, n)
	}
	out := make([]float64, 0, n*n)
	for i, row := range r.Array() {
		vals, err := floats(row, fmt.Sprintf("%s[%d]", key, i), n)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

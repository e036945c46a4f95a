package tools

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/petasbytes/go-meshedit/internal/command"
)

// ToolDefinition describes one operation as a callable tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema anthropic.ToolInputSchemaParam
	Operation   command.OperationKind
}

// Param returns the tool as an Anthropic tool parameter.
func (d ToolDefinition) Param() anthropic.ToolUnionParam {
	return anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
		Name:        d.Name,
		Description: anthropic.String(d.Description),
		InputSchema: d.InputSchema,
	}}
}

// GenerateSchema reflects T into an inline, closed JSON Schema.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
		Required:   schema.Required,
	}
}

// PropertyNames lists the top-level properties of s in declaration order.
func PropertyNames(s anthropic.ToolInputSchemaParam) []string {
	props, ok := s.Properties.(*orderedmap.OrderedMap[string, *jsonschema.Schema])
	if !ok || props == nil {
		return nil
	}
	names := make([]string, 0, props.Len())
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

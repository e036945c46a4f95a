// Package tools defines the model-facing contracts for the volume operations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema and the operation it maps to.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - One input type per operation, sharing VolumeInput.
//   - Invariant: a tool name is always the wire function_name of its operation,
//     so tool_use blocks can be replayed as a command batch unchanged.
package tools

// Package mcpserver exposes the edit engine over the Model Context Protocol.
//
// One tool per edit operation runs a single command; apply_volume_commands
// runs a whole batch. inspect_mesh, list_meshes, load_mesh and save_mesh
// manage the mesh the server edits. Every tool call holds the server lock, so
// commands from concurrent clients never interleave within a batch.
package mcpserver

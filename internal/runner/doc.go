// Package runner drives the model side of an edit session: it sends the
// conversation to the Anthropic Messages API with one tool per operation,
// replays the returned tool_use blocks as a single ordered command batch and
// answers each one with a tool_result.
//
// Invariants:
//   - tool_use blocks of one assistant message run in the order the model
//     emitted them, as one batch against the current mesh.
//   - every tool_use gets exactly one tool_result in the following user message.
//
// Flow:
//
//	user(text) -> assistant(tool_use...) -> user(tool_result...) -> assistant(text)
package runner

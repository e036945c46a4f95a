// Package windowing trims an agent conversation to a token budget before it
// is sent. Messages are grouped so that an assistant tool_use message and the
// user message answering it are kept or dropped together; the newest groups
// are kept first.
package windowing

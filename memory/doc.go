// Package memory persists agent edit sessions between runs.
//
// A transcript stores the text of each turn and the run ids of the batches the
// turn executed, so a resumed session can be matched against the audit store.
// Tool blocks are not stored; a resumed conversation is text only.
package memory

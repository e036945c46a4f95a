// Package schema gates raw command batches against the declared structural
// contract before any geometry or dispatch runs.
package schema

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/petasbytes/go-meshedit/internal/command"
)

//go:embed tool_calls_schema.json
var contract []byte

// Contract returns the built-in JSON Schema for command batches.
func Contract() []byte {
	out := make([]byte, len(contract))
	copy(out, contract)
	return out
}

// Error is the single aggregate failure for a batch that does not match the
// contract. A batch that fails here never reaches dispatch.
type Error struct {
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Schema validation failed: %v", e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// ValidatedBatch is a batch that passed the gate. Call order is preserved.
type ValidatedBatch struct {
	calls []command.Call
}

// Calls returns the validated calls in submission order.
func (b ValidatedBatch) Calls() []command.Call {
	out := make([]command.Call, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b ValidatedBatch) Len() int { return len(b.calls) }

// Validator checks batch documents. A Validator without a schema passes every
// well-formed document through unchanged.
type Validator struct {
	resolved *jsonschema.Resolved
}

// New resolves s. A nil schema yields a pass-through validator.
func New(s *jsonschema.Schema) (*Validator, error) {
	if s == nil {
		return &Validator{}, nil
	}
	rs, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return &Validator{resolved: rs}, nil
}

// Parse decodes and resolves a JSON Schema document.
func Parse(data []byte) (*Validator, error) {
	var s jsonschema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return New(&s)
}

// Builtin returns a validator for the embedded contract.
func Builtin() (*Validator, error) {
	return Parse(contract)
}

// Load reads the schema at path. A missing file is not an error: the returned
// validator is disabled and the caller decides whether to warn.
func Load(path string) (*Validator, error) {
	if path == "" {
		return Builtin()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Validator{}, nil
		}
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return Parse(data)
}

// Enabled reports whether a schema is loaded.
func (v *Validator) Enabled() bool {
	return v != nil && v.resolved != nil
}

// Validate checks a decoded document (see command.DecodeDocument) and returns
// its calls. Every failure is a *Error.
func (v *Validator) Validate(doc any) (ValidatedBatch, error) {
	if v.Enabled() {
		if err := v.resolved.Validate(doc); err != nil {
			return ValidatedBatch{}, &Error{Cause: err}
		}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return ValidatedBatch{}, &Error{Cause: err}
	}
	var b command.Batch
	if err := json.Unmarshal(raw, &b); err != nil {
		return ValidatedBatch{}, &Error{Cause: fmt.Errorf("batch shape: %w", err)}
	}
	return ValidatedBatch{calls: b.ToolCalls}, nil
}

// ValidateBytes decodes data in the given format, then validates it.
func (v *Validator) ValidateBytes(data []byte, f command.Format) (ValidatedBatch, error) {
	doc, err := command.DecodeDocument(data, f)
	if err != nil {
		return ValidatedBatch{}, &Error{Cause: err}
	}
	return v.Validate(doc)
}

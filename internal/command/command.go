package command

import (
	"encoding/json"
	"fmt"

	"github.com/petasbytes/go-meshedit/internal/volume"
)

// Command is one validated, typed edit: an operation, the volume it addresses
// and its parameters.
type Command struct {
	Operation OperationKind
	Volume    volume.Descriptor
	Params    Params
}

// New builds a Command, checking that params belong to op.
func New(op OperationKind, vol volume.Descriptor, params Params) (Command, error) {
	if params == nil {
		params = DefaultParams(op)
	}
	if params == nil || params.Operation() != op {
		return Command{}, fmt.Errorf("parameters %T do not match %s", params, op)
	}
	if err := vol.Validate(); err != nil {
		return Command{}, err
	}
	return Command{Operation: op, Volume: vol, Params: params}, nil
}

// Call is one entry of the wire tool_calls array.
type Call struct {
	FunctionName string          `json:"function_name"`
	Parameters   json.RawMessage `json:"parameters"`
}

// Batch is the wire document: an ordered list of calls.
type Batch struct {
	ToolCalls []Call `json:"tool_calls"`
}

package windowing_test

import (
	"github.com/anthropics/anthropic-sdk-go"
)

func text(s string) anthropic.ContentBlockParamUnion {
	return anthropic.NewTextBlock(s)
}

func use(id string, input any) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{OfToolUse: &anthropic.ToolUseBlockParam{
		ID: id, Name: "scale_vertices_in_volume", Input: input,
	}}
}

func result(id, s string) anthropic.ContentBlockParamUnion {
	return anthropic.NewToolResultBlock(id, s, false)
}

func asst(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleAssistant, Content: blocks}
}

func user(blocks ...anthropic.ContentBlockParamUnion) anthropic.MessageParam {
	return anthropic.MessageParam{Role: anthropic.MessageParamRoleUser, Content: blocks}
}

type lenCounter struct{}

// Count charges one unit per block, so tests can reason in block counts.
func (lenCounter) Count(m anthropic.MessageParam) int { return len(m.Content) }

package windowing

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// Counter estimates the input tokens of one message.
type Counter interface {
	Count(m anthropic.MessageParam) int
}

// BlockOverhead is added per content block by RuneCounter.
const BlockOverhead = 4

// RuneCounter counts runes: text, tool_use input as JSON, and the text of
// tool results. Every block also costs BlockOverhead.
type RuneCounter struct{}

func (RuneCounter) Count(m anthropic.MessageParam) int {
	n := 0
	for _, b := range m.Content {
		n += countBlock(b) + BlockOverhead
	}
	return n
}

func countBlock(b anthropic.ContentBlockParamUnion) int {
	switch {
	case b.OfText != nil:
		return utf8.RuneCountInString(b.OfText.Text)
	case b.OfToolUse != nil:
		// Volume commands are mostly numbers; the encoded input is a fair proxy.
		raw, err := json.Marshal(b.OfToolUse.Input)
		if err != nil {
			return 0
		}
		return utf8.RuneCount(raw) + utf8.RuneCountInString(b.OfToolUse.Name)
	case b.OfToolResult != nil:
		n := 0
		for _, c := range b.OfToolResult.Content {
			if c.OfText != nil {
				n += utf8.RuneCountInString(c.OfText.Text)
			}
		}
		return n
	}
	return 0
}

func groupCost(c Counter, g Group, msgs []anthropic.MessageParam) int {
	n := 0
	for i := g.Start; i < g.End; i++ {
		n += c.Count(msgs[i])
	}
	return n
}

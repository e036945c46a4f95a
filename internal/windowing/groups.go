package windowing

import "github.com/anthropics/anthropic-sdk-go"

type GroupKind int

const (
	Single GroupKind = iota
	// ToolExchange is an assistant tool_use message followed by the user
	// message carrying a result for every one of its calls.
	ToolExchange
)

// Group is the message span [Start, End).
type Group struct {
	Kind  GroupKind
	Start int
	End   int
}

// GroupMessages splits msgs into groups. A tool exchange is recognised only when the
// user message opens with tool_result blocks whose ids match the assistant's
// tool_use ids exactly; anything else falls back to single messages.
func GroupMessages(msgs []anthropic.MessageParam) []Group {
	groups := make([]Group, 0, len(msgs))
	for i := 0; i < len(msgs); {
		if i+1 < len(msgs) && answers(msgs[i], msgs[i+1]) {
			groups = append(groups, Group{Kind: ToolExchange, Start: i, End: i + 2})
			i += 2
			continue
		}
		groups = append(groups, Group{Kind: Single, Start: i, End: i + 1})
		i++
	}
	return groups
}

func answers(asst, user anthropic.MessageParam) bool {
	if asst.Role != anthropic.MessageParamRoleAssistant || user.Role != anthropic.MessageParamRoleUser {
		return false
	}
	uses := map[string]bool{}
	for _, b := range asst.Content {
		if b.OfToolUse != nil && b.OfToolUse.ID != "" {
			uses[b.OfToolUse.ID] = false
		}
	}
	if len(uses) == 0 {
		return false
	}
	inResults := true
	for _, b := range user.Content {
		tr := b.OfToolResult
		if tr == nil {
			inResults = false
			continue
		}
		if !inResults {
			// tool_result after other content
			return false
		}
		answered, ok := uses[tr.ToolUseID]
		if !ok || answered {
			return false
		}
		uses[tr.ToolUseID] = true
	}
	for _, answered := range uses {
		if !answered {
			return false
		}
	}
	return true
}

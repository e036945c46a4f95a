package memory

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
)

// Message is one stored turn.
type Message struct {
	Role   string   `json:"role"`
	Text   string   `json:"text,omitempty"`
	RunIDs []string `json:"run_ids,omitempty"`
}

// Transcript is the stored form of a session.
type Transcript struct {
	Mesh     string    `json:"mesh,omitempty"`
	Messages []Message `json:"messages"`
}

// Load reads a transcript. A missing file yields an empty transcript.
func Load(path string) (Transcript, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Transcript{}, nil
	}
	if err != nil {
		return Transcript{}, err
	}
	var t Transcript
	if err := json.Unmarshal(b, &t); err != nil {
		return Transcript{}, err
	}
	return t, nil
}

// Save writes t to path.
func Save(path string, t Transcript) error {
	b, err := json.MarshalIndent(t, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Append records a user turn and the assistant's reply. Empty replies are skipped.
func (t *Transcript) Append(userText, assistantText string, runIDs []string) {
	t.Messages = append(t.Messages, Message{Role: "user", Text: userText, RunIDs: runIDs})
	if assistantText != "" {
		t.Messages = append(t.Messages, Message{Role: "assistant", Text: assistantText})
	}
}

// Conversation rebuilds the text-only message list for the model.
func (t Transcript) Conversation() []anthropic.MessageParam {
	conv := make([]anthropic.MessageParam, 0, len(t.Messages))
	for _, m := range t.Messages {
		if m.Text == "" {
			continue
		}
		if m.Role == "assistant" {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	return conv
}

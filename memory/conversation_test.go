package memory_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/go-meshedit/memory"
)

func TestTranscript_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "session.json")

	in := memory.Transcript{Mesh: "cube.obj"}
	in.Append("raise the top face", "Raised it by one unit.", []string{"run-1"})
	in.Append("thanks", "", nil)
	if err := memory.Save(p, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := memory.Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("mismatch:\n got %+v\nwant %+v", out, in)
	}
	if len(out.Messages) != 3 {
		t.Fatalf("empty reply should not be stored: %+v", out.Messages)
	}
}

func TestTranscript_LoadMissing(t *testing.T) {
	p := filepath.Join(t.TempDir(), "does-not-exist.json")
	tr, err := memory.Load(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if tr.Messages != nil || tr.Mesh != "" {
		t.Fatalf("expected empty transcript, got %#v", tr)
	}
}

func TestTranscript_LoadInvalidJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(p, []byte("{oops"), 0o664); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if _, err := memory.Load(p); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestTranscript_Conversation(t *testing.T) {
	tr := memory.Transcript{Messages: []memory.Message{
		{Role: "user", Text: "inset the sides", RunIDs: []string{"r1"}},
		{Role: "assistant", Text: "Inset four faces."},
		{Role: "user"},
	}}
	conv := tr.Conversation()
	if len(conv) != 2 {
		t.Fatalf("conversation length = %d", len(conv))
	}
	if conv[0].Role != anthropic.MessageParamRoleUser || conv[1].Role != anthropic.MessageParamRoleAssistant {
		t.Fatalf("roles = %s, %s", conv[0].Role, conv[1].Role)
	}
	if got := conv[1].Content[0].OfText.Text; got != "Inset four faces." {
		t.Fatalf("assistant text = %q", got)
	}
}

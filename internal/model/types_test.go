package model

import (
	"encoding/json"
	"testing"
)

func TestRestrictedSetOrder(t *testing.T) {
	want := []string{"read", "bash", "grep", "find", "ls", "questionnaire"}
	got := RestrictedSet().Strings()
	if len(got) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSetsAreFreshCopies(t *testing.T) {
	s := RestrictedSet()
	s[0] = "mutated"
	if RestrictedSet()[0] != Read {
		t.Error("expected RestrictedSet to be unaffected by caller mutation")
	}
}

func TestCapabilitySetWithout(t *testing.T) {
	got := DefaultSet().Without(RestrictedSet())
	want := CapabilitySet{Edit, Write}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseCapabilitySetKeepsUnknown(t *testing.T) {
	got := ParseCapabilitySet([]string{"read", " ", "custom_tool", "write"})
	want := CapabilitySet{Read, "custom_tool", Write}
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestToolCallCommand(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  string
	}{
		{"string command", map[string]any{"command": "ls -la"}, "ls -la"},
		{"missing command", map[string]any{"path": "/tmp"}, ""},
		{"non-string command", map[string]any{"command": 42}, ""},
		{"nil input", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := ToolCall{ToolName: "bash", Input: tt.input}
			if got := tc.Command(); got != tt.want {
				t.Errorf("Command() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentContainsText(t *testing.T) {
	blocks := BlockContent(
		ContentBlock{Type: "image", Data: "[MARKER]"},
		ContentBlock{Type: "text", Text: "hello [MARKER] world"},
	)
	if !blocks.ContainsText("[MARKER]") {
		t.Error("expected text block to match")
	}

	imageOnly := BlockContent(ContentBlock{Type: "image", Data: "[MARKER]"})
	if imageOnly.ContainsText("[MARKER]") {
		t.Error("expected non-text blocks to be ignored")
	}

	if !TextContent("x [MARKER] y").ContainsText("[MARKER]") {
		t.Error("expected string content to match")
	}
}

func TestMessageJSONShapes(t *testing.T) {
	raw := `[
		{"role":"user","content":"plain text","display":true},
		{"role":"user","content":[{"type":"text","text":"block text"}],"display":true},
		{"role":"custom","customType":"x","content":null,"display":false}
	]`
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msgs[0].Content.IsBlocks() || msgs[0].Content.Text() != "plain text" {
		t.Errorf("expected string content, got %+v", msgs[0].Content)
	}
	if !msgs[1].Content.IsBlocks() || msgs[1].Content.Text() != "block text" {
		t.Errorf("expected block content, got %+v", msgs[1].Content)
	}
	if msgs[2].CustomType != "x" {
		t.Errorf("expected customType x, got %q", msgs[2].CustomType)
	}

	out, err := json.Marshal(msgs[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"role":"user","content":[{"type":"text","text":"block text"}],"display":true}`
	if string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}
}

func TestContentRejectsObject(t *testing.T) {
	var c Content
	if err := json.Unmarshal([]byte(`{"a":1}`), &c); err == nil {
		t.Error("expected error for object content")
	}
}

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/askmode/internal/engine"
	"github.com/ppiankov/askmode/internal/mode"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(engine.Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.yaml"),
	}, nil)
	if err != nil {
		t.Fatalf("failed to create MCP server: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func toggle(t *testing.T, s *Server) ToggleOutput {
	t.Helper()
	_, out, err := s.handleToggle(context.Background(), &mcpsdk.CallToolRequest{}, ToggleInput{})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	return out
}

func TestStatusInitiallyNormal(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleStatus(context.Background(), &mcpsdk.CallToolRequest{}, StatusInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Restricted || out.Mode != "normal" {
		t.Fatalf("expected normal mode, got %+v", out)
	}
	if strings.Join(out.ActiveTools, ",") != "read,bash,edit,write" {
		t.Fatalf("unexpected tools: %v", out.ActiveTools)
	}
	if out.SessionID == "" || !strings.HasPrefix(out.ConfigHash, "sha256:") {
		t.Fatalf("missing identifiers: %+v", out)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	s := newTestServer(t)

	on := toggle(t, s)
	if on.Mode != "restricted" {
		t.Fatalf("expected restricted, got %q", on.Mode)
	}
	if strings.Join(on.ActiveTools, ",") != "read,bash,grep,find,ls,questionnaire" {
		t.Fatalf("unexpected tools: %v", on.ActiveTools)
	}
	if len(on.Notifications) != 1 || !strings.HasPrefix(on.Notifications[0], "Ask mode enabled.") {
		t.Fatalf("unexpected notifications: %q", on.Notifications)
	}

	_, status, _ := s.handleStatus(context.Background(), &mcpsdk.CallToolRequest{}, StatusInput{})
	if status.Status != mode.StatusText {
		t.Fatalf("expected status %q, got %q", mode.StatusText, status.Status)
	}
	if strings.Join(status.SavedTools, ",") != "read,bash,edit,write" {
		t.Fatalf("unexpected saved tools: %v", status.SavedTools)
	}

	off := toggle(t, s)
	if off.Mode != "normal" || strings.Join(off.ActiveTools, ",") != "read,bash,edit,write" {
		t.Fatalf("unexpected state after second toggle: %+v", off)
	}
}

func TestCheckVerdicts(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleCheck(ctx, &mcpsdk.CallToolRequest{}, CheckInput{Command: "rm -rf /"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Safe || out.Decision != "deny" {
		t.Fatalf("expected deny for rm -rf, got %+v", out)
	}

	_, safeOut, err := s.handleCheck(ctx, &mcpsdk.CallToolRequest{}, CheckInput{Command: "git log --oneline"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !safeOut.Safe || safeOut.Decision != "allow" {
		t.Fatalf("expected allow for git log, got %+v", safeOut)
	}
}

func TestToolCallNormalModeAllowed(t *testing.T) {
	s := newTestServer(t)
	result, out, err := s.handleToolCall(context.Background(), &mcpsdk.CallToolRequest{}, ToolCallInput{
		ToolName: "bash",
		Input:    map[string]any{"command": "rm -rf build"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatal("normal mode must not block")
	}
	if out.Blocked {
		t.Fatal("expected not blocked")
	}
}

func TestToolCallBlockedInAskMode(t *testing.T) {
	s := newTestServer(t)
	toggle(t, s)

	result, out, err := s.handleToolCall(context.Background(), &mcpsdk.CallToolRequest{}, ToolCallInput{
		ToolName: "bash",
		Input:    map[string]any{"command": "rm -rf build"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected IsError result for blocked command")
	}
	if !out.Blocked || !strings.Contains(out.Reason, "Command: rm -rf build") {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestToolCallRequiresName(t *testing.T) {
	s := newTestServer(t)
	if _, _, err := s.handleToolCall(context.Background(), &mcpsdk.CallToolRequest{}, ToolCallInput{}); err == nil {
		t.Fatal("expected error for missing tool_name")
	}
}

func TestAgentStartAndContext(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, none, err := s.handleAgentStart(ctx, &mcpsdk.CallToolRequest{}, AgentStartInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none.Inject {
		t.Fatal("no advisory expected in normal mode")
	}

	toggle(t, s)
	_, adv, err := s.handleAgentStart(ctx, &mcpsdk.CallToolRequest{}, AgentStartInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !adv.Inject || adv.CustomType != mode.AdvisoryType || adv.Display {
		t.Fatalf("unexpected advisory: %+v", adv)
	}
	if !strings.HasPrefix(adv.Content, mode.Sentinel) {
		t.Fatalf("advisory should start with sentinel: %q", adv.Content)
	}

	messages := []any{
		map[string]any{"role": "user", "content": "hello", "display": true},
		map[string]any{"role": "custom", "customType": adv.CustomType, "content": adv.Content, "display": false},
		map[string]any{"role": "user", "content": []any{
			map[string]any{"type": "text", "text": adv.Content},
		}, "display": true},
	}

	_, same, err := s.handleContext(ctx, &mcpsdk.CallToolRequest{}, ContextInput{Messages: messages})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if same.Modified || len(same.Messages) != 3 {
		t.Fatalf("context must pass through in ask mode: %+v", same)
	}

	toggle(t, s)
	_, filtered, err := s.handleContext(ctx, &mcpsdk.CallToolRequest{}, ContextInput{Messages: messages})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filtered.Modified || len(filtered.Messages) != 1 {
		t.Fatalf("expected one message after filtering: %+v", filtered)
	}
	first, ok := filtered.Messages[0].(map[string]any)
	if !ok || first["content"] != "hello" {
		t.Fatalf("unexpected kept message: %#v", filtered.Messages[0])
	}
}

func TestContextKeepsUnmodelledFields(t *testing.T) {
	s := newTestServer(t)
	const conversation = `[
		{"role":"user","content":"list files","timestamp":100},
		{"role":"assistant","timestamp":123,"content":[{"type":"toolCall","id":"c1","name":"bash","arguments":{"command":"ls"}}]},
		{"role":"toolResult","toolCallId":"c1","toolName":"bash","content":[{"type":"text","text":"main.go"}],"isError":false,"timestamp":124},
		{"role":"custom","customType":"ask-mode-context","content":"[ASK MODE ACTIVE] old advisory","display":false}
	]`
	var messages []any
	if err := json.Unmarshal([]byte(conversation), &messages); err != nil {
		t.Fatal(err)
	}

	_, out, err := s.handleContext(context.Background(), &mcpsdk.CallToolRequest{}, ContextInput{Messages: messages})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Modified || len(out.Messages) != 3 {
		t.Fatalf("expected the stale advisory to be dropped: %+v", out)
	}

	got, err := json.Marshal(out.Messages)
	if err != nil {
		t.Fatal(err)
	}
	want, err := json.Marshal(messages[:3])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("messages changed in transit:\n got %s\nwant %s", got, want)
	}
	for _, field := range []string{`"id":"c1"`, `"arguments":{"command":"ls"}`, `"toolCallId":"c1"`, `"timestamp":123`} {
		if !bytes.Contains(got, []byte(field)) {
			t.Errorf("output lost %s", field)
		}
	}
	if bytes.Contains(got, []byte(`"display"`)) {
		t.Error("display must not be added to messages that lacked it")
	}
}

func TestContextRejectsBadContent(t *testing.T) {
	s := newTestServer(t)
	_, _, err := s.handleContext(context.Background(), &mcpsdk.CallToolRequest{}, ContextInput{
		Messages: []any{map[string]any{"role": "user", "content": map[string]any{"x": 1}}},
	})
	if err == nil {
		t.Fatal("expected error for object content")
	}
}

type recordingUI struct {
	notes []string
}

func (r *recordingUI) Notify(text string, _ mode.Level) { r.notes = append(r.notes, text) }
func (r *recordingUI) SetStatus(string, string) {}
func (r *recordingUI) SetWidget(string, []string) {}

func TestNotificationsForwarded(t *testing.T) {
	fwd := &recordingUI{}
	s, err := New(engine.Options{ConfigPath: filepath.Join(t.TempDir(), "config.yaml")}, fwd)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	toggle(t, s)
	if len(fwd.notes) != 1 {
		t.Fatalf("forwarded notifications: %q", fwd.notes)
	}
}

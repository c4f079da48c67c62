package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/askmode/internal/mode"
	"github.com/ppiankov/askmode/internal/model"
)

// --- Input/Output types ---

// StatusInput is empty.
type StatusInput struct{}

// StatusOutput describes the controller state.
type StatusOutput struct {
	Mode        string   `json:"mode"`
	Restricted  bool     `json:"restricted"`
	ActiveTools []string `json:"active_tools"`
	SavedTools  []string `json:"saved_tools,omitempty"`
	Status      string   `json:"status,omitempty"`
	SessionID   string   `json:"session_id"`
	ConfigHash  string   `json:"config_hash"`
}

// ToggleInput is empty.
type ToggleInput struct{}

// ToggleOutput reports the state after toggling.
type ToggleOutput struct {
	Mode          string   `json:"mode"`
	ActiveTools   []string `json:"active_tools"`
	Notifications []string `json:"notifications,omitempty"`
}

// CheckInput defines parameters for the askmode_check tool.
type CheckInput struct {
	Command string `json:"command" jsonschema:"raw shell command line to classify"`
}

// CheckOutput contains the classifier verdict.
type CheckOutput struct {
	Command  string `json:"command"`
	Safe     bool   `json:"safe"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// ToolCallInput defines parameters for the askmode_tool_call tool.
type ToolCallInput struct {
	ToolName string         `json:"tool_name" jsonschema:"name of the tool about to run (e.g. bash)"`
	Input    map[string]any `json:"input,omitempty" jsonschema:"tool input; bash reads the command field"`
}

// ToolCallOutput reports whether the call was vetoed.
type ToolCallOutput struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}

// ContextInput defines parameters for the askmode_context tool.
type ContextInput struct {
	Messages []any `json:"messages" jsonschema:"conversation messages with role, content, customType and display"`
}

// ContextOutput carries the filtered conversation.
type ContextOutput struct {
	Modified bool  `json:"modified"`
	Messages []any `json:"messages"`
}

// AgentStartInput is empty.
type AgentStartInput struct{}

// AgentStartOutput carries the advisory to inject, if any.
type AgentStartOutput struct {
	Inject     bool   `json:"inject"`
	CustomType string `json:"custom_type,omitempty"`
	Content    string `json:"content,omitempty"`
	Display    bool   `json:"display"`
}

// --- Handlers ---

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	ctrl := s.engine.Controller
	out := StatusOutput{
		Mode:        string(ctrl.Mode()),
		Restricted:  ctrl.Restricted(),
		ActiveTools: s.engine.Session.ActiveTools().Strings(),
		Status:      s.notes.statusText(mode.StatusKey),
		SessionID:   s.engine.Session.ID(),
		ConfigHash:  s.engine.ConfigHash(),
	}
	if out.Restricted {
		out.SavedTools = ctrl.SavedCapabilities().Strings()
	}
	return nil, out, nil
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleInput) (*mcpsdk.CallToolResult, ToggleOutput, error) {
	s.notes.drain()
	s.engine.Controller.Toggle()
	return nil, ToggleOutput{
		Mode:          string(s.engine.Controller.Mode()),
		ActiveTools:   s.engine.Session.ActiveTools().Strings(),
		Notifications: s.notes.drain(),
	}, nil
}

func (s *Server) handleCheck(_ context.Context, _ *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	v := s.engine.Controller.Classifier().Classify(input.Command)
	out := CheckOutput{
		Command:  input.Command,
		Safe:     v.Safe,
		Decision: string(model.Allow),
		Reason:   v.Reason,
	}
	if !v.Safe {
		out.Decision = string(model.Deny)
	}
	return nil, out, nil
}

func (s *Server) handleToolCall(ctx context.Context, _ *mcpsdk.CallToolRequest, input ToolCallInput) (*mcpsdk.CallToolResult, ToolCallOutput, error) {
	if input.ToolName == "" {
		return nil, ToolCallOutput{}, fmt.Errorf("tool_name is required")
	}
	res, err := s.engine.Dispatcher.Dispatch(ctx, mode.Event{
		Kind:     mode.EventToolCall,
		ToolCall: model.ToolCall{ToolName: input.ToolName, Input: input.Input},
	})
	if err != nil {
		return nil, ToolCallOutput{}, err
	}
	if res.ToolCall != nil && res.ToolCall.Block {
		out := ToolCallOutput{Blocked: true, Reason: res.ToolCall.Reason}
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, ToolCallOutput{}, nil
}

// handleContext filters on a typed view of each message but returns the
// caller's own values, so fields the view does not model (ids, timestamps,
// tool call arguments) pass through unchanged.
func (s *Server) handleContext(ctx context.Context, _ *mcpsdk.CallToolRequest, input ContextInput) (*mcpsdk.CallToolResult, ContextOutput, error) {
	views := make([]model.Message, len(input.Messages))
	for i, raw := range input.Messages {
		if err := convert(raw, &views[i]); err != nil {
			return nil, ContextOutput{}, fmt.Errorf("invalid message %d: %w", i, err)
		}
	}

	res, err := s.engine.Dispatcher.Dispatch(ctx, mode.Event{Kind: mode.EventContext, Messages: views})
	if err != nil {
		return nil, ContextOutput{}, err
	}

	kept := make([]any, 0, len(input.Messages))
	for i, raw := range input.Messages {
		if res.Context != nil && mode.IsAdvisory(views[i]) {
			continue
		}
		kept = append(kept, raw)
	}
	return nil, ContextOutput{Modified: len(kept) != len(input.Messages), Messages: kept}, nil
}

func (s *Server) handleAgentStart(ctx context.Context, _ *mcpsdk.CallToolRequest, _ AgentStartInput) (*mcpsdk.CallToolResult, AgentStartOutput, error) {
	res, err := s.engine.Dispatcher.Dispatch(ctx, mode.Event{Kind: mode.EventBeforeAgentStart})
	if err != nil {
		return nil, AgentStartOutput{}, err
	}
	if res.AgentStart == nil {
		return nil, AgentStartOutput{}, nil
	}
	msg := res.AgentStart.Message
	return nil, AgentStartOutput{
		Inject:     true,
		CustomType: msg.CustomType,
		Content:    msg.Content.Text(),
		Display:    msg.Display,
	}, nil
}

// convert re-decodes v into out through JSON.
func convert(v, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

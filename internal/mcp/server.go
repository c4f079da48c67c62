package mcp

import (
	"context"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/askmode/internal/engine"
	"github.com/ppiankov/askmode/internal/mode"
)

// Version is reported in the MCP implementation info.
var Version = "0.1.0"

// Server exposes an ask-mode engine as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	engine    *engine.Engine
	notes     *noteBuffer
}

// New creates an MCP server around a fresh engine. Notifications are
// returned in tool results and also forwarded to forward, if non-nil.
func New(opts engine.Options, forward mode.UI) (*Server, error) {
	notes := &noteBuffer{forward: forward}
	opts.UI = notes
	eng, err := engine.New(opts)
	if err != nil {
		return nil, err
	}

	s := &Server{
		engine: eng,
		notes:  notes,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "askmode",
			Version: Version,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Engine returns the engine behind the server.
func (s *Server) Engine() *engine.Engine { return s.engine }

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close closes the engine's audit log.
func (s *Server) Close() error {
	return s.engine.Close()
}

// registerTools adds all askmode tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "askmode_status",
		Description: "Report whether ask mode (read-only Q&A) is active and which tools are enabled.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "askmode_toggle",
		Description: "Toggle ask mode. Entering restricts tools to read-only ones; leaving restores the previous tool set.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "askmode_check",
		Description: "Classify a shell command line as read-only safe or blocked, without running it.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "askmode_tool_call",
		Description: "Run the pre-execution hook for a tool call. Blocked calls return an error with the reason.",
	}, s.handleToolCall)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "askmode_context",
		Description: "Filter a conversation, removing stale ask-mode advisories when ask mode is off.",
	}, s.handleContext)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "askmode_agent_start",
		Description: "Return the advisory message to inject before an agent turn, if ask mode is active.",
	}, s.handleAgentStart)
}

// noteBuffer collects notifications between tool calls.
type noteBuffer struct {
	forward mode.UI

	mu     sync.Mutex
	notes  []string
	status map[string]string
}

func (n *noteBuffer) Notify(text string, level mode.Level) {
	n.mu.Lock()
	n.notes = append(n.notes, text)
	n.mu.Unlock()
	if n.forward != nil {
		n.forward.Notify(text, level)
	}
}

func (n *noteBuffer) SetStatus(key, text string) {
	n.mu.Lock()
	if n.status == nil {
		n.status = map[string]string{}
	}
	if text == "" {
		delete(n.status, key)
	} else {
		n.status[key] = text
	}
	n.mu.Unlock()
	if n.forward != nil {
		n.forward.SetStatus(key, text)
	}
}

func (n *noteBuffer) SetWidget(key string, lines []string) {
	if n.forward != nil {
		n.forward.SetWidget(key, lines)
	}
}

func (n *noteBuffer) drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.notes
	n.notes = nil
	return out
}

func (n *noteBuffer) statusText(key string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status[key]
}

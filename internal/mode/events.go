package mode

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/askmode/internal/model"
)

// EventKind names a host lifecycle hook.
type EventKind string

const (
	EventToolCall         EventKind = "tool_call"
	EventContext          EventKind = "context"
	EventBeforeAgentStart EventKind = "before_agent_start"
)

// Event is a host notification. Only the fields for Kind are read.
type Event struct {
	Kind     EventKind
	ToolCall model.ToolCall
	Messages []model.Message
}

// Result carries the handler outcome. At most one field is set, and a
// zero Result means the host proceeds unchanged.
type Result struct {
	ToolCall   *model.ToolCallResult
	Context    *model.ContextResult
	AgentStart *model.AgentStartResult
}

// HandlerFunc handles one event kind.
type HandlerFunc func(ctx context.Context, ev Event) Result

// Dispatcher routes host events and commands to a controller.
type Dispatcher struct {
	handlers map[EventKind]HandlerFunc
	commands map[string]Command
}

// NewDispatcher wires every hook of c.
func NewDispatcher(c *Controller) *Dispatcher {
	cmd := c.Command()
	return &Dispatcher{
		handlers: map[EventKind]HandlerFunc{
			EventToolCall: func(ctx context.Context, ev Event) Result {
				return Result{ToolCall: c.HandleToolCall(ctx, ev.ToolCall)}
			},
			EventContext: func(ctx context.Context, ev Event) Result {
				return Result{Context: c.HandleContext(ctx, ev.Messages)}
			},
			EventBeforeAgentStart: func(ctx context.Context, _ Event) Result {
				return Result{AgentStart: c.HandleAgentStart(ctx)}
			},
		},
		commands: map[string]Command{cmd.Name: cmd},
	}
}

// Dispatch runs the handler for ev.Kind.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (Result, error) {
	h, ok := d.handlers[ev.Kind]
	if !ok {
		return Result{}, fmt.Errorf("mode: no handler for event %q", ev.Kind)
	}
	return h(ctx, ev), nil
}

// RunCommand runs a registered slash command by name, without the slash.
func (d *Dispatcher) RunCommand(ctx context.Context, name, args string) error {
	cmd, ok := d.commands[name]
	if !ok {
		return fmt.Errorf("mode: unknown command %q", name)
	}
	return cmd.Run(ctx, args)
}

// Kinds lists the handled event kinds in sorted order.
func (d *Dispatcher) Kinds() []EventKind {
	kinds := make([]EventKind, 0, len(d.handlers))
	for k := range d.handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Commands lists the registered commands sorted by name.
func (d *Dispatcher) Commands() []Command {
	cmds := make([]Command, 0, len(d.commands))
	for _, c := range d.commands {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

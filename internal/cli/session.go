package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/askmode/internal/engine"
	"github.com/ppiankov/askmode/internal/mode"
	"github.com/ppiankov/askmode/internal/model"
	"github.com/ppiankov/askmode/internal/session"
	"github.com/ppiankov/askmode/internal/ui"
)

var sessionAuditLog string

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.Flags().StringVar(&sessionAuditLog, "audit-log", "", "Path to audit log JSONL file, overrides config")
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactive ask-mode session against an in-memory agent",
	Long: `Starts a line-based session with an in-memory agent host.

  /ask              toggle ask mode
  /ask <question>   answer one question in ask mode
  /status           show mode and active tools
  /context          show the conversation the agent would see
  /quit             leave
  anything else     treated as a bash tool call and checked, never executed`,
	RunE: runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	term := ui.NewTerminal(os.Stderr)
	out := cmd.OutOrStdout()

	var eng *engine.Engine
	eng, err := engine.New(engine.Options{
		ConfigPath:   configPath,
		AuditLogPath: sessionAuditLog,
		Logger:       newLogger(),
		UI:           term,
		Responder: func(ctx context.Context, s *session.Session, msg model.Message) {
			agentTurn(ctx, eng, msg, out)
		},
	})
	if err != nil {
		return err
	}
	defer eng.Close()

	fmt.Fprintf(os.Stderr, "askmode session %s (type /quit to leave)\n", eng.Session.ID())
	return sessionLoop(cmd.Context(), eng, term, cmd.InOrStdin(), out)
}

// agentTurn stands in for the model. It runs the before_agent_start hook
// the way a host does before every turn, then records a placeholder answer.
func agentTurn(ctx context.Context, eng *engine.Engine, msg model.Message, out io.Writer) {
	advised := false
	res, err := eng.Dispatcher.Dispatch(ctx, mode.Event{Kind: mode.EventBeforeAgentStart})
	if err == nil && res.AgentStart != nil {
		eng.Session.Append(res.AgentStart.Message)
		advised = true
	}

	answer := fmt.Sprintf("(agent) received %q with tools [%s]", msg.Content.Text(), eng.Session.ActiveTools())
	if advised {
		answer += ", ask mode advisory attached"
	}
	eng.Session.Append(model.Message{Role: model.RoleAssistant, Content: model.TextContent(answer), Display: true})
	fmt.Fprintln(out, answer)
}

func sessionLoop(ctx context.Context, eng *engine.Engine, term *ui.Terminal, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, term.Prompt())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, rest, isCommand := parseSlash(line)
		if !isCommand {
			checkLine(ctx, eng, line, out)
			continue
		}

		switch name {
		case "quit", "exit":
			return nil
		case "status":
			printStatus(eng, term, out)
		case "context":
			printContext(ctx, eng, out)
		default:
			if err := eng.Dispatcher.RunCommand(ctx, name, rest); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}

// parseSlash splits "/name rest" into its parts.
func parseSlash(line string) (name, rest string, ok bool) {
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}
	name, rest, _ = strings.Cut(line[1:], " ")
	return name, strings.TrimSpace(rest), true
}

func checkLine(ctx context.Context, eng *engine.Engine, command string, out io.Writer) {
	res, err := eng.Dispatcher.Dispatch(ctx, mode.Event{
		Kind:     mode.EventToolCall,
		ToolCall: model.ToolCall{ToolName: string(model.Bash), Input: map[string]any{"command": command}},
	})
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	if res.ToolCall != nil && res.ToolCall.Block {
		fmt.Fprintf(out, "BLOCKED: %s\n", res.ToolCall.Reason)
		return
	}
	fmt.Fprintf(out, "allowed: %s\n", command)
}

func printStatus(eng *engine.Engine, term *ui.Terminal, out io.Writer) {
	ctrl := eng.Controller
	fmt.Fprintf(out, "mode: %s\n", ctrl.Mode())
	if indicator := term.Status(mode.StatusKey); indicator != "" {
		fmt.Fprintf(out, "indicator: %s\n", indicator)
	}
	fmt.Fprintf(out, "tools: %s\n", eng.Session.ActiveTools())
	if ctrl.Restricted() {
		fmt.Fprintf(out, "saved: %s\n", ctrl.SavedCapabilities())
	}
	fmt.Fprintf(out, "config: %s\n", eng.ConfigHash())
}

func printContext(ctx context.Context, eng *engine.Engine, out io.Writer) {
	msgs := eng.Session.Transcript()
	res, err := eng.Dispatcher.Dispatch(ctx, mode.Event{Kind: mode.EventContext, Messages: msgs})
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	if res.Context != nil {
		msgs = res.Context.Messages
	}
	for _, m := range msgs {
		label := string(m.Role)
		if m.CustomType != "" {
			label += ":" + m.CustomType
		}
		first, _, _ := strings.Cut(m.Content.Text(), "\n")
		fmt.Fprintf(out, "[%s] %s\n", label, first)
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/askmode/internal/engine"
	askmcp "github.com/ppiankov/askmode/internal/mcp"
	"github.com/ppiankov/askmode/internal/reload"
	"github.com/ppiankov/askmode/internal/ui"
)

var (
	mcpAuditLog string
	mcpWatch    bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpAuditLog, "audit-log", "", "Path to audit log JSONL file, overrides config")
	mcpCmd.Flags().BoolVar(&mcpWatch, "watch", false, "Reload the config file when it changes")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long: "Runs askmode as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes the ask-mode hooks as tools: status, toggle, check, tool_call,\n" +
		"context, agent_start.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	srv, err := askmcp.New(engine.Options{
		ConfigPath:   configPath,
		AuditLogPath: mcpAuditLog,
		Logger:       logger,
	}, ui.NewTerminal(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if mcpWatch {
		eng := srv.Engine()
		reloader, err := reload.New(eng.Reload, eng.WatchPaths(), reload.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
		} else {
			go reloader.Run(ctx)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "askmode MCP server running on stdio")
	fmt.Fprintf(os.Stderr, "Session: %s\n", srv.Engine().Session.ID())
	fmt.Fprintln(os.Stderr)

	return srv.Run(ctx)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/askmode/internal/engine"
	"github.com/ppiankov/askmode/internal/reload"
	"github.com/ppiankov/askmode/internal/server"
	"github.com/ppiankov/askmode/internal/ui"
)

var (
	serveAddr     string
	serveAuditLog string
	serveWatch    bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "gRPC listen address")
	serveCmd.Flags().StringVar(&serveAuditLog, "audit-log", "", "Path to audit log JSONL file, overrides config")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "Reload the config file when it changes")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start gRPC guard server",
	Long: "Runs askmode as a gRPC server (askmode.v1.Guard).\n" +
		"Agents and `askmode check --remote` query it for verdicts; clients fail closed.\n" +
		"Supports hot-reload of the config file.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	srv, err := server.New(server.Config{
		Addr: serveAddr,
		Engine: engine.Options{
			ConfigPath:   configPath,
			AuditLogPath: serveAuditLog,
			Logger:       logger,
			UI:           ui.NewTerminal(os.Stderr),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgFile := srv.Engine().ConfigPath()
	if serveWatch {
		reloader, err := reload.New(srv.Reload, srv.Engine().WatchPaths(), reload.WithLogger(logger))
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
		fmt.Fprintln(os.Stderr, "\nShutting down guard server...")
		cancel()
		srv.GracefulStop()
	}()

	fmt.Fprintf(os.Stderr, "askmode guard server listening on %s\n", serveAddr)
	if serveWatch {
		fmt.Fprintf(os.Stderr, "Config: %s (hot-reload enabled)\n", cfgFile)
	}
	fmt.Fprintln(os.Stderr)

	return srv.Serve()
}

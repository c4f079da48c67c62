package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/askmode/internal/config"
	"github.com/ppiankov/askmode/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "askmode",
	Short: "Read-only ask mode for AI coding agents",
	Long: "Switches an agent into a read-only Q&A mode: tools are narrowed to read-only ones\n" +
		"and every bash command is checked against an allowlist before it runs.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ~/.askmode/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides config")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text|json), overrides config")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the stderr logger from flags, falling back to the
// config file. stdout is left to command output and the MCP transport.
func newLogger() *slog.Logger {
	level, format := logLevel, logFormat
	if cfg, err := config.LoadConfig(configPath); err == nil {
		if level == "" {
			level = cfg.Log.Level
		}
		if format == "" {
			format = cfg.Log.Format
		}
	}
	return logging.New(level, format, os.Stderr)
}

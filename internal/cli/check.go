package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/askmode/internal/client"
	"github.com/ppiankov/askmode/internal/config"
	"github.com/ppiankov/askmode/internal/safecmd"
)

// exitBlocked is the process exit code for a blocked command.
const exitBlocked = 77

var (
	checkRemote string
	checkFormat string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkRemote, "remote", "", "Classify on a remote askmode server (host:port) instead of locally")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check -- <command>",
	Short: "Classify a bash command as read-only safe or blocked",
	Long: "Runs the ask-mode allowlist over a command line without executing it.\n" +
		"Exit code 0 if the command is allowed, 77 if it would be blocked.\n" +
		"With --remote the verdict comes from an askmode gRPC server; an\n" +
		"unreachable server blocks.",
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

type checkResult struct {
	Command  string `json:"command"`
	Safe     bool   `json:"safe"`
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	verdict, err := classify(cmd.Context(), command)
	if err != nil {
		return err
	}
	if err := writeVerdict(cmd.OutOrStdout(), command, verdict, checkFormat); err != nil {
		return err
	}
	if !verdict.Safe {
		os.Exit(exitBlocked)
	}
	return nil
}

func classify(ctx context.Context, command string) (safecmd.Verdict, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if checkRemote != "" {
		c, err := client.New(checkRemote)
		if err != nil {
			return safecmd.Verdict{}, err
		}
		defer c.Close()
		return c.Check(ctx, command), nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return safecmd.Verdict{}, err
	}
	cl, err := cfg.Classifier()
	if err != nil {
		return safecmd.Verdict{}, err
	}
	return cl.Classify(command), nil
}

func writeVerdict(w io.Writer, command string, v safecmd.Verdict, format string) error {
	res := checkResult{Command: command, Safe: v.Safe, Decision: "allow", Reason: v.Reason}
	if !v.Safe {
		res.Decision = "deny"
	}

	switch format {
	case "json":
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	default:
		fmt.Fprintf(w, "%s: %s\n  %s\n", strings.ToUpper(res.Decision), command, res.Reason)
	}
	return nil
}

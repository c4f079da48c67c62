package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/askmode/internal/audit"
	"github.com/ppiankov/askmode/internal/config"
	"github.com/ppiankov/askmode/internal/model"
	"github.com/ppiankov/askmode/internal/ui"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and diagnose issues",
	RunE:  runDoctor,
}

type doctorCheck struct {
	label  string
	ok     bool
	detail string
	fix    string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	checks := doctorChecks(configPath)
	if !printDoctor(cmd.OutOrStdout(), checks) {
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

func doctorChecks(path string) []doctorCheck {
	var checks []doctorCheck

	// 1. Binary location and version.
	execPath, _ := os.Executable()
	if execPath != "" {
		checks = append(checks, doctorCheck{
			label:  "askmode binary",
			ok:     true,
			detail: fmt.Sprintf("%s (%s, %s)", execPath, version, commit),
		})
	} else {
		checks = append(checks, doctorCheck{
			label:  "askmode binary",
			ok:     false,
			detail: "cannot determine executable path",
		})
	}

	// 2. Config file.
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		checks = append(checks, doctorCheck{label: "config file", ok: true, detail: path})
	} else {
		checks = append(checks, doctorCheck{
			label:  "config file",
			ok:     true,
			detail: "not found, using built-in defaults",
		})
	}

	// 3. Config parses and validates.
	cfg, hash, err := config.LoadConfigWithHash(path)
	if err != nil {
		checks = append(checks, doctorCheck{
			label:  "config valid",
			ok:     false,
			detail: err.Error(),
			fix:    "askmode init-config --force",
		})
		return checks
	}
	checks = append(checks, doctorCheck{label: "config valid", ok: true, detail: hash})

	// 4. Allowlist, inline or from allowlist_file.
	source := "inline"
	if cfg.AllowlistFile != "" {
		source = cfg.AllowlistFile
	}
	if cl, err := cfg.Classifier(); err != nil {
		checks = append(checks, doctorCheck{
			label:  "allowlist",
			ok:     false,
			detail: err.Error(),
			fix:    "fix or remove " + source,
		})
	} else {
		p := cl.Patterns()
		checks = append(checks, doctorCheck{
			label:  "allowlist",
			ok:     len(p.Commands) > 0,
			detail: fmt.Sprintf("%s: %d commands, %d unsafe patterns", source, len(p.Commands), len(p.Unsafe)),
			fix:    "add commands to the allowlist",
		})
	}

	// 5. Restricted tools must not grant writes.
	restricted := cfg.RestrictedSet()
	if restricted.Contains(model.Edit) || restricted.Contains(model.Write) {
		checks = append(checks, doctorCheck{
			label:  "restricted tools",
			ok:     false,
			detail: restricted.String(),
			fix:    "remove edit and write from restricted_tools",
		})
	} else {
		checks = append(checks, doctorCheck{label: "restricted tools", ok: true, detail: restricted.String()})
	}

	// 6. Audit log chain.
	if cfg.AuditLog != "" {
		if _, err := os.Stat(cfg.AuditLog); err != nil {
			checks = append(checks, doctorCheck{label: "audit log", ok: true, detail: "not created yet"})
		} else if res := audit.Verify(cfg.AuditLog); res.Valid {
			checks = append(checks, doctorCheck{
				label:  "audit log",
				ok:     true,
				detail: fmt.Sprintf("%d entries verified", res.Lines),
			})
		} else {
			checks = append(checks, doctorCheck{
				label:  "audit log",
				ok:     false,
				detail: fmt.Sprintf("broken at line %d: %s", res.ErrorLine, res.Error),
				fix:    "askmode audit verify " + cfg.AuditLog,
			})
		}
	}

	// 7. Terminal.
	tty := "no (plain output)"
	if ui.IsTerminal(os.Stderr) {
		tty = "yes (colour output)"
	}
	checks = append(checks, doctorCheck{label: "terminal", ok: true, detail: tty})

	return checks
}

// printDoctor prints results and reports whether every check passed.
func printDoctor(w io.Writer, checks []doctorCheck) bool {
	hasFailures := false
	for _, c := range checks {
		mark := "\u2713" // ✓
		if !c.ok {
			mark = "\u2717" // ✗
			hasFailures = true
		}
		line := fmt.Sprintf("%s %-20s %s", mark, c.label+":", c.detail)
		if !c.ok && c.fix != "" {
			line += fmt.Sprintf("  ->  %s", c.fix)
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintln(w)
	if hasFailures {
		fmt.Fprintln(w, "Some checks failed. Run the suggested commands to fix.")
		return false
	}
	fmt.Fprintln(w, "All checks passed.")
	return true
}

package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Overridden at build time:
//
//	go build -ldflags "-X github.com/ppiankov/askmode/internal/cli.version=v0.2.0 -X github.com/ppiankov/askmode/internal/cli.commit=$(git rev-parse --short HEAD)"
var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print askmode version, commit and Go runtime as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := json.MarshalIndent(buildInfo(), "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	},
}

func buildInfo() map[string]string {
	return map[string]string{
		"name":     "askmode",
		"version":  version,
		"commit":   commit,
		"go":       runtime.Version(),
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
	}
}

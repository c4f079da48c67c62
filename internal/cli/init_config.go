package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/askmode/internal/config"
)

var (
	initTOML  bool
	initForce bool
)

func init() {
	initConfigCmd.Flags().BoolVar(&initTOML, "toml", false, "Write TOML instead of YAML")
	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initConfigCmd)
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a commented default config file",
	Long: `Writes the built-in configuration, with comments, to ~/.askmode/config.yaml
(or config.toml with --toml). Use --config to choose another path.
Existing files are left alone unless --force is given.`,
	RunE: runInitConfig,
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path, err := initConfigPath()
	if err != nil {
		return err
	}

	content := config.DefaultConfigYAML()
	if initTOML || strings.EqualFold(filepath.Ext(path), ".toml") {
		content = config.DefaultConfigTOML()
	}

	wrote, err := writeIfMissing(path, content)
	if err != nil {
		return err
	}
	if wrote {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists (use --force to overwrite)\n", path)
	}
	return nil
}

func initConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path := config.DefaultPath()
	if path == "" {
		return "", fmt.Errorf("cannot determine home directory; use --config")
	}
	if initTOML {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".toml"
	}
	return path, nil
}

// writeIfMissing writes content to path if it doesn't exist or --force is set.
// Returns true if the file was written.
func writeIfMissing(path, content string) (bool, error) {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

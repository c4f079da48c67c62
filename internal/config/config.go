package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/askmode/internal/model"
	"github.com/ppiankov/askmode/internal/safecmd"
)

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config holds all configurable askmode parameters.
// AllowlistFile, when set, replaces Allowlist with the patterns in that YAML
// file; LoadConfig resolves it relative to the config file.
type Config struct {
	RestrictedTools []string         `yaml:"restricted_tools" toml:"restricted_tools"`
	DefaultTools    []string         `yaml:"default_tools" toml:"default_tools"`
	Allowlist       safecmd.Patterns `yaml:"allowlist" toml:"allowlist"`
	AllowlistFile   string           `yaml:"allowlist_file" toml:"allowlist_file"`
	AuditLog        string           `yaml:"audit_log" toml:"audit_log"`
	Log             LogConfig        `yaml:"log" toml:"log"`
}

// fileConfig mirrors Config with optional sections, so a file only
// overrides what it names. The allowlist is replaced as a whole.
type fileConfig struct {
	RestrictedTools []string          `yaml:"restricted_tools" toml:"restricted_tools"`
	DefaultTools    []string          `yaml:"default_tools" toml:"default_tools"`
	Allowlist       *safecmd.Patterns `yaml:"allowlist" toml:"allowlist"`
	AllowlistFile   *string           `yaml:"allowlist_file" toml:"allowlist_file"`
	AuditLog        *string           `yaml:"audit_log" toml:"audit_log"`
	Log             *LogConfig        `yaml:"log" toml:"log"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		RestrictedTools: model.RestrictedSet().Strings(),
		DefaultTools:    model.DefaultSet().Strings(),
		Allowlist:       clonePatterns(safecmd.DefaultPatterns),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns ~/.askmode/config.yaml, or ~/.askmode/config.toml when
// only the TOML file exists. Returns "" if home is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".askmode")
	yamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(yamlPath); err != nil {
		tomlPath := filepath.Join(dir, "config.toml")
		if _, err := os.Stat(tomlPath); err == nil {
			return tomlPath
		}
	}
	return yamlPath
}

// LoadConfig loads configuration from a YAML or TOML file.
// Empty path falls back to ~/.askmode/config.yaml.
// Missing file returns defaults. Invalid content returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := LoadConfigWithHash(path)
	return cfg, err
}

// LoadConfigWithHash loads configuration and returns the SHA-256 of the raw
// bytes on disk. When no file exists the hash is that of empty input.
func LoadConfigWithHash(path string) (*Config, string, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return DefaultConfig(), hashBytes(nil), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), hashBytes(nil), nil
		}
		return nil, "", fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Parse(data, formatFor(path))
	if err != nil {
		return nil, "", fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.AllowlistFile = resolvePath(cfg.AllowlistFile, filepath.Dir(path))
	return cfg, hashBytes(data), nil
}

// Parse decodes data ("yaml" or "toml") over DefaultConfig and validates it.
func Parse(data []byte, format string) (*Config, error) {
	var fc fileConfig
	switch format {
	case "toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	cfg := DefaultConfig()
	if fc.RestrictedTools != nil {
		cfg.RestrictedTools = fc.RestrictedTools
	}
	if fc.DefaultTools != nil {
		cfg.DefaultTools = fc.DefaultTools
	}
	if fc.Allowlist != nil {
		cfg.Allowlist = *fc.Allowlist
	}
	if fc.AllowlistFile != nil {
		cfg.AllowlistFile = *fc.AllowlistFile
	}
	if fc.AuditLog != nil {
		cfg.AuditLog = *fc.AuditLog
	}
	if fc.Log != nil {
		if fc.Log.Level != "" {
			cfg.Log.Level = fc.Log.Level
		}
		if fc.Log.Format != "" {
			cfg.Log.Format = fc.Log.Format
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot drive a controller.
func (c *Config) Validate() error {
	if len(model.ParseCapabilitySet(c.RestrictedTools)) == 0 {
		return fmt.Errorf("restricted_tools must not be empty")
	}
	if len(model.ParseCapabilitySet(c.DefaultTools)) == 0 {
		return fmt.Errorf("default_tools must not be empty")
	}
	if _, err := safecmd.New(c.Allowlist); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// RestrictedSet returns the configured ask-mode tool set.
func (c *Config) RestrictedSet() model.CapabilitySet {
	return model.ParseCapabilitySet(c.RestrictedTools)
}

// DefaultSet returns the configured fallback tool set.
func (c *Config) DefaultSet() model.CapabilitySet {
	return model.ParseCapabilitySet(c.DefaultTools)
}

// Classifier compiles the configured allowlist, reading AllowlistFile
// when one is set.
func (c *Config) Classifier() (*safecmd.Classifier, error) {
	if c.AllowlistFile != "" {
		return safecmd.Load(c.AllowlistFile)
	}
	return safecmd.New(c.Allowlist)
}

// resolvePath expands a leading "~/" and makes relative paths relative
// to dir.
func resolvePath(path, dir string) string {
	if path == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func formatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

func hashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}

func clonePatterns(p safecmd.Patterns) safecmd.Patterns {
	out := safecmd.Patterns{
		Commands: append([]string(nil), p.Commands...),
		Unsafe:   append([]string(nil), p.Unsafe...),
	}
	if p.Subcommands != nil {
		out.Subcommands = make(map[string][]string, len(p.Subcommands))
		for k, v := range p.Subcommands {
			out.Subcommands[k] = append([]string(nil), v...)
		}
	}
	return out
}

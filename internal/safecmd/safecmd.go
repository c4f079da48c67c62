package safecmd

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// metacharacters can smuggle a second command past a safe leader.
// Any occurrence blocks the whole command; segments are not re-validated.
var metacharacters = []string{";", "&", "|", ">", "<", "`", "$(", "${"}

// Patterns holds the raw allowlist organized by category.
type Patterns struct {
	Commands    []string            `yaml:"commands" toml:"commands"`
	Subcommands map[string][]string `yaml:"subcommands" toml:"subcommands"`
	Unsafe      []string            `yaml:"unsafe" toml:"unsafe"`
}

// Verdict is the outcome of classifying one command line.
type Verdict struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason"`
}

// Classifier decides whether a command line is read-only.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	commands    map[string]bool
	subcommands map[string]map[string]bool
	unsafe      []*regexp.Regexp
	raw         Patterns
}

// New compiles a Classifier. An invalid unsafe regex is an error: dropping
// it would silently widen the allowlist.
func New(p Patterns) (*Classifier, error) {
	c := &Classifier{
		commands:    make(map[string]bool, len(p.Commands)),
		subcommands: make(map[string]map[string]bool, len(p.Subcommands)),
		raw:         p,
	}
	for _, cmd := range p.Commands {
		if cmd = strings.TrimSpace(cmd); cmd != "" {
			c.commands[cmd] = true
		}
	}
	for leader, subs := range p.Subcommands {
		set := make(map[string]bool, len(subs))
		for _, s := range subs {
			set[s] = true
		}
		c.subcommands[leader] = set
	}
	for _, u := range p.Unsafe {
		re, err := regexp.Compile(u)
		if err != nil {
			return nil, fmt.Errorf("safecmd: invalid unsafe pattern %q: %w", u, err)
		}
		c.unsafe = append(c.unsafe, re)
	}
	return c, nil
}

var defaultClassifier = mustNew(DefaultPatterns)

func mustNew(p Patterns) *Classifier {
	c, err := New(p)
	if err != nil {
		panic(err)
	}
	return c
}

// NewDefault returns a Classifier over DefaultPatterns.
func NewDefault() *Classifier {
	return defaultClassifier
}

// IsSafeCommand classifies command with the built-in allowlist.
func IsSafeCommand(command string) bool {
	return defaultClassifier.IsSafe(command)
}

// Load reads an allowlist from a YAML file. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Classifier, error) {
	if path == "" {
		return NewDefault(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, fmt.Errorf("safecmd: read allowlist: %w", err)
	}

	var p Patterns
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("safecmd: parse allowlist: %w", err)
	}
	return New(p)
}

// IsSafe reports whether command is judged read-only.
func (c *Classifier) IsSafe(command string) bool {
	return c.Classify(command).Safe
}

// Classify returns a verdict for a raw, unparsed command line.
// Unknown, empty or malformed input is blocked.
func (c *Classifier) Classify(command string) Verdict {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return blocked("empty command")
	}

	for _, r := range trimmed {
		if r != '\t' && unicode.IsControl(r) {
			return blocked("control character in command")
		}
	}

	for _, m := range metacharacters {
		if strings.Contains(trimmed, m) {
			return blocked(fmt.Sprintf("shell metacharacter %q (chaining, piping, redirection and substitution are not allowed)", m))
		}
	}

	fields := strings.Fields(trimmed)
	leader := fields[0]
	if strings.Contains(leader, "/") {
		return blocked(fmt.Sprintf("path-qualified command %q", leader))
	}
	if strings.Contains(leader, "=") {
		return blocked(fmt.Sprintf("environment assignment %q", leader))
	}
	if !c.commands[leader] {
		return blocked(fmt.Sprintf("command %q is not allowlisted", leader))
	}

	if subs, gated := c.subcommands[leader]; gated {
		if len(fields) < 2 {
			return blocked(fmt.Sprintf("%s requires an allowlisted subcommand", leader))
		}
		if !subs[fields[1]] {
			return blocked(fmt.Sprintf("%s %s is not allowlisted", leader, fields[1]))
		}
	}

	normalized := strings.Join(fields, " ")
	for _, re := range c.unsafe {
		if re.MatchString(normalized) {
			return blocked("unsafe pattern: " + re.String())
		}
	}

	return Verdict{Safe: true, Reason: "allowlisted: " + leader}
}

// Patterns returns the raw patterns the classifier was built from.
func (c *Classifier) Patterns() Patterns {
	return c.raw
}

func blocked(reason string) Verdict {
	return Verdict{Safe: false, Reason: reason}
}

package model

import "strings"

// Capability identifies a tool the agent may invoke.
// The constants below are the identifiers askmode itself names; hosts may
// report others, which are carried through verbatim.
type Capability string

const (
	Read          Capability = "read"
	Bash          Capability = "bash"
	Grep          Capability = "grep"
	Find          Capability = "find"
	Ls            Capability = "ls"
	Questionnaire Capability = "questionnaire"
	Edit          Capability = "edit"
	Write         Capability = "write"
)

// CapabilitySet is an ordered list of capabilities as the host reports them.
type CapabilitySet []Capability

// RestrictedSet returns the read-only tool set active in ask mode.
func RestrictedSet() CapabilitySet {
	return CapabilitySet{Read, Bash, Grep, Find, Ls, Questionnaire}
}

// DefaultSet returns the full tool set restored when nothing was saved.
func DefaultSet() CapabilitySet {
	return CapabilitySet{Read, Bash, Edit, Write}
}

// ParseCapabilitySet converts raw identifiers, dropping blanks.
func ParseCapabilitySet(ids []string) CapabilitySet {
	set := make(CapabilitySet, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set = append(set, Capability(id))
	}
	return set
}

// Clone returns an independent copy. A nil set clones to an empty one.
func (s CapabilitySet) Clone() CapabilitySet {
	out := make(CapabilitySet, len(s))
	copy(out, s)
	return out
}

// Contains reports whether c is in the set.
func (s CapabilitySet) Contains(c Capability) bool {
	for _, x := range s {
		if x == c {
			return true
		}
	}
	return false
}

// Without returns the members of s that are not in other, in order.
func (s CapabilitySet) Without(other CapabilitySet) CapabilitySet {
	out := CapabilitySet{}
	for _, c := range s {
		if !other.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// Equal reports element-wise equality including order.
func (s CapabilitySet) Equal(other CapabilitySet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Strings returns the identifiers as plain strings.
func (s CapabilitySet) Strings() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = string(c)
	}
	return out
}

func (s CapabilitySet) String() string {
	return strings.Join(s.Strings(), ", ")
}

// Decision is the outcome of a command check.
type Decision string

const (
	Allow Decision = "allow"
	Deny  Decision = "deny"
)

// Mode names the controller state in logs and audit records.
type Mode string

const (
	ModeNormal     Mode = "normal"
	ModeRestricted Mode = "restricted"
)

// ToolCall is a pending tool invocation reported by the host before execution.
type ToolCall struct {
	ToolName string         `json:"tool_name"`
	Input    map[string]any `json:"input"`
}

// Command returns input.command when it is a string, "" otherwise.
func (tc ToolCall) Command() string {
	if tc.Input == nil {
		return ""
	}
	cmd, _ := tc.Input["command"].(string)
	return cmd
}

// ToolCallResult vetoes a tool call. A nil result lets the call proceed.
type ToolCallResult struct {
	Block  bool   `json:"block"`
	Reason string `json:"reason"`
}

// ContextResult replaces the message list sent for inference.
type ContextResult struct {
	Messages []Message `json:"messages"`
}

// AgentStartResult injects one message before an agent turn.
type AgentStartResult struct {
	Message Message `json:"message"`
}

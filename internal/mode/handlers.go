package mode

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/askmode/internal/audit"
	"github.com/ppiankov/askmode/internal/model"
)

const (
	// AdvisoryType tags advisory messages injected by the controller.
	AdvisoryType = "ask-mode-context"
	// Sentinel marks advisory text so stray copies can be recognized.
	Sentinel = "[ASK MODE ACTIVE]"
)

// BlockReason is the veto text shown to the agent for a rejected command.
func BlockReason(command, detail string) string {
	reason := "Ask mode: command blocked (not allowlisted). Use /ask to disable ask mode first.\nCommand: " + command
	if detail != "" {
		reason += "\nReason: " + detail
	}
	return reason
}

// HandleToolCall vetoes bash commands outside the allowlist while ask mode
// is on. Other tools, and every call in normal mode, pass with a nil result.
func (c *Controller) HandleToolCall(_ context.Context, call model.ToolCall) *model.ToolCallResult {
	c.mu.Lock()
	restricted := c.restricted
	cl := c.classifier
	c.mu.Unlock()

	if !restricted || call.ToolName != string(model.Bash) {
		return nil
	}

	command := call.Command()
	verdict := cl.Classify(command)

	decision := model.Allow
	if !verdict.Safe {
		decision = model.Deny
	}
	c.logger.Debug("bash command classified",
		"command", command, "decision", decision, "reason", verdict.Reason)
	c.record(audit.Entry{
		Event:    audit.EventToolCall,
		Mode:     string(model.ModeRestricted),
		Tool:     call.ToolName,
		Command:  command,
		Decision: string(decision),
		Reason:   verdict.Reason,
	})

	if verdict.Safe {
		return nil
	}
	return &model.ToolCallResult{Block: true, Reason: BlockReason(command, verdict.Reason)}
}

// HandleContext strips advisories left over from an earlier ask session.
// While ask mode is on it returns nil and the context is left untouched.
func (c *Controller) HandleContext(_ context.Context, messages []model.Message) *model.ContextResult {
	if c.Restricted() {
		return nil
	}

	filtered := make([]model.Message, 0, len(messages))
	dropped := 0
	for _, m := range messages {
		if IsAdvisory(m) {
			dropped++
			continue
		}
		filtered = append(filtered, m)
	}
	if dropped > 0 {
		c.logger.Debug("stale advisories removed", "count", dropped)
	}
	return &model.ContextResult{Messages: filtered}
}

// IsAdvisory reports whether m is an ask-mode advisory: tagged with
// AdvisoryType, or a user message carrying the sentinel.
func IsAdvisory(m model.Message) bool {
	if m.CustomType == AdvisoryType {
		return true
	}
	if m.Role != model.RoleUser {
		return false
	}
	return m.Content.ContainsText(Sentinel)
}

// HandleAgentStart injects the advisory before each agent turn while ask
// mode is on.
func (c *Controller) HandleAgentStart(_ context.Context) *model.AgentStartResult {
	c.mu.Lock()
	restricted := c.restricted
	allowed := c.restrictedSet.Clone()
	denied := disallowed(allowed, c.saved, c.defaultSet)
	c.mu.Unlock()

	if !restricted {
		return nil
	}
	return &model.AgentStartResult{Message: AdvisoryMessage(allowed, denied)}
}

// disallowed lists tools from the saved and fallback sets that the
// restricted set leaves out, in first-seen order.
func disallowed(allowed model.CapabilitySet, sets ...model.CapabilitySet) model.CapabilitySet {
	var out model.CapabilitySet
	for _, set := range sets {
		for _, c := range set.Without(allowed) {
			if !out.Contains(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// AdvisoryMessage builds the hidden message telling the agent it is
// restricted.
func AdvisoryMessage(allowed, denied model.CapabilitySet) model.Message {
	var b strings.Builder
	b.WriteString(Sentinel + "\n")
	b.WriteString("You are in ask mode - a read-only Q&A mode for safe code analysis.\n\n")
	b.WriteString("Restrictions:\n")
	fmt.Fprintf(&b, "- You can only use: %s\n", allowed)
	if len(denied) > 0 {
		fmt.Fprintf(&b, "- You CANNOT use: %s (file modifications are disabled)\n", denied)
	} else {
		b.WriteString("- You CANNOT use any other tool (file modifications are disabled)\n")
	}
	b.WriteString("- Bash is restricted to an allowlist of read-only commands\n\n")
	b.WriteString("Answer the user's question. Do NOT attempt to make any changes.")

	return model.Message{
		Role:       model.RoleCustom,
		CustomType: AdvisoryType,
		Content:    model.TextContent(b.String()),
		Display:    false,
	}
}

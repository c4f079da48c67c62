package mode

import (
	"context"
	"fmt"
	"strings"
)

// Command describes a slash command the controller registers with the host.
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, args string) error
}

// Command returns the /ask registration.
func (c *Controller) Command() Command {
	return Command{
		Name:        "ask",
		Description: "Toggle ask mode (read-only Q&A), or ask a question in ask mode: /ask <question>",
		Run:         c.Ask,
	}
}

// Ask toggles the mode when args is blank. Otherwise it sends args as a
// steering message and waits for the agent to finish answering. When the
// mode was off, Ask turns it on for the answer and back off afterwards.
//
// If waiting fails the mode is left as it is and the error is returned.
func (c *Controller) Ask(ctx context.Context, args string) error {
	question := strings.TrimSpace(args)
	if question == "" {
		c.Toggle()
		return nil
	}

	if !c.activateIfNormal("Activating ask mode to answer...") {
		c.ui.Notify("Answering in ask mode...", LevelInfo)
		c.host.SendUserMessage(question, DeliverSteer)
		if err := c.host.WaitForIdle(ctx); err != nil {
			return fmt.Errorf("mode: wait for idle: %w", err)
		}
		return nil
	}

	c.host.SendUserMessage(question, DeliverSteer)
	if err := c.host.WaitForIdle(ctx); err != nil {
		c.logger.Warn("agent did not become idle; ask mode stays on", "error", err)
		return fmt.Errorf("mode: wait for idle: %w", err)
	}
	c.Deactivate()
	c.ui.Notify("Ask mode disabled. Full access restored.", LevelInfo)
	return nil
}

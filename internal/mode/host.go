package mode

import (
	"context"

	"github.com/ppiankov/askmode/internal/model"
)

// Delivery controls how a user message enters the conversation.
type Delivery string

const (
	// DeliverSteer redirects the turn in progress instead of starting a new one.
	DeliverSteer Delivery = "steer"
	// DeliverFollowUp queues the message for after the current turn.
	DeliverFollowUp Delivery = "followUp"
)

// Level is a notification severity.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Host is the agent runtime the controller drives.
type Host interface {
	ActiveTools() model.CapabilitySet
	SetActiveTools(tools model.CapabilitySet)
	SendUserMessage(text string, delivery Delivery)
	// WaitForIdle blocks until the agent has no turn in progress.
	WaitForIdle(ctx context.Context) error
}

// UI is the notification and status surface of the host.
type UI interface {
	Notify(text string, level Level)
	// SetStatus shows text under key; empty text clears it.
	SetStatus(key, text string)
	// SetWidget shows lines under key; nil clears it.
	SetWidget(key string, lines []string)
}

type nopUI struct{}

func (nopUI) Notify(string, Level) {}
func (nopUI) SetStatus(string, string) {}
func (nopUI) SetWidget(string, []string) {}

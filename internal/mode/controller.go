package mode

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ppiankov/askmode/internal/audit"
	"github.com/ppiankov/askmode/internal/config"
	"github.com/ppiankov/askmode/internal/logging"
	"github.com/ppiankov/askmode/internal/model"
	"github.com/ppiankov/askmode/internal/safecmd"
)

const (
	// StatusKey is the status and widget key owned by the controller.
	StatusKey = "ask-mode"
	// StatusText is shown while ask mode is on.
	StatusText = "❓ ask"
)

// Controller owns the ask-mode state of one session.
// restricted and saved change only in Activate and Deactivate; every
// handler reads them fresh.
type Controller struct {
	host     Host
	ui       UI
	recorder audit.Recorder
	logger   *slog.Logger

	sessionID string

	// transition serializes mode changes from the state check through the
	// host update. Handlers never take it.
	transition sync.Mutex

	mu            sync.Mutex
	restricted    bool
	saved         model.CapabilitySet
	restrictedSet model.CapabilitySet
	defaultSet    model.CapabilitySet
	classifier    *safecmd.Classifier
	configHash    string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClassifier replaces the built-in allowlist.
func WithClassifier(cl *safecmd.Classifier) Option {
	return func(c *Controller) {
		if cl != nil {
			c.classifier = cl
		}
	}
}

// WithCapabilitySets replaces the restricted and fallback tool sets.
// Empty sets are ignored.
func WithCapabilitySets(restricted, fallback model.CapabilitySet) Option {
	return func(c *Controller) {
		if len(restricted) > 0 {
			c.restrictedSet = restricted.Clone()
		}
		if len(fallback) > 0 {
			c.defaultSet = fallback.Clone()
		}
	}
}

// WithRecorder records verdicts and transitions.
func WithRecorder(r audit.Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the operator logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSessionID tags audit records and log lines.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// WithConfigHash tags audit records with the active configuration hash.
func WithConfigHash(hash string) Option {
	return func(c *Controller) { c.configHash = hash }
}

// New creates a controller in normal mode. A nil ui discards notifications.
func New(host Host, ui UI, opts ...Option) *Controller {
	if ui == nil {
		ui = nopUI{}
	}
	c := &Controller{
		host:          host,
		ui:            ui,
		logger:        logging.Discard(),
		restrictedSet: model.RestrictedSet(),
		defaultSet:    model.DefaultSet(),
		classifier:    safecmd.NewDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("session_id", c.sessionID)
	return c
}

// Restricted reports whether ask mode is on.
func (c *Controller) Restricted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restricted
}

// Mode returns the current state name.
func (c *Controller) Mode() model.Mode {
	if c.Restricted() {
		return model.ModeRestricted
	}
	return model.ModeNormal
}

// SavedCapabilities returns the tool set captured on the last activation.
// It is meaningful only while ask mode is on.
func (c *Controller) SavedCapabilities() model.CapabilitySet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saved.Clone()
}

// RestrictedSet returns the tool set applied on activation.
func (c *Controller) RestrictedSet() model.CapabilitySet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restrictedSet.Clone()
}

// Classifier returns the allowlist currently in force.
func (c *Controller) Classifier() *safecmd.Classifier {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classifier
}

// Activate captures the host's tool set and switches to the restricted one.
// Callers must not activate twice in a row: the second call would capture
// the restricted set as the one to restore. Toggle and Ask check the mode
// under the same lock.
func (c *Controller) Activate() {
	c.transition.Lock()
	defer c.transition.Unlock()
	c.activate()
}

func (c *Controller) activate() {
	current := c.host.ActiveTools().Clone()

	c.mu.Lock()
	c.saved = current
	c.restricted = true
	tools := c.restrictedSet.Clone()
	c.mu.Unlock()

	c.host.SetActiveTools(tools)
	c.ui.Notify("Ask mode enabled. Tools: "+tools.String(), LevelInfo)
	c.updateStatus(true)

	c.logger.Info("ask mode enabled", "tools", tools.Strings(), "saved", current.Strings())
	c.recordTransition(model.ModeRestricted, "saved: "+current.String())
}

// Deactivate restores the captured tool set, or the fallback set when
// nothing was captured.
func (c *Controller) Deactivate() {
	c.transition.Lock()
	defer c.transition.Unlock()
	c.deactivate()
}

func (c *Controller) deactivate() {
	c.mu.Lock()
	c.restricted = false
	restore := c.saved.Clone()
	if len(restore) == 0 {
		restore = c.defaultSet.Clone()
	}
	c.mu.Unlock()

	c.host.SetActiveTools(restore)
	c.ui.Notify("Ask mode disabled. Full access restored. All tools available.", LevelInfo)
	c.updateStatus(false)

	c.logger.Info("ask mode disabled", "tools", restore.Strings())
	c.recordTransition(model.ModeNormal, "restored: "+restore.String())
}

// Toggle activates from normal mode and deactivates from ask mode.
func (c *Controller) Toggle() {
	c.transition.Lock()
	defer c.transition.Unlock()
	if c.Restricted() {
		c.deactivate()
	} else {
		c.activate()
	}
}

// activateIfNormal turns ask mode on unless it already is, and reports
// whether it did. notice is shown just before activating.
func (c *Controller) activateIfNormal(notice string) bool {
	c.transition.Lock()
	defer c.transition.Unlock()
	if c.Restricted() {
		return false
	}
	c.ui.Notify(notice, LevelInfo)
	c.activate()
	return true
}

// ApplyConfig swaps the allowlist and tool sets. The captured tool set and
// the current mode are left alone; a new restricted set takes effect on the
// next activation.
func (c *Controller) ApplyConfig(cfg *config.Config, hash string) error {
	cl, err := cfg.Classifier()
	if err != nil {
		return fmt.Errorf("mode: apply config: %w", err)
	}
	restricted, fallback := cfg.RestrictedSet(), cfg.DefaultSet()
	if len(restricted) == 0 || len(fallback) == 0 {
		return fmt.Errorf("mode: apply config: empty tool set")
	}

	c.mu.Lock()
	c.classifier = cl
	c.restrictedSet = restricted
	c.defaultSet = fallback
	c.configHash = hash
	c.mu.Unlock()

	c.logger.Info("configuration applied", "config_hash", hash)
	return nil
}

func (c *Controller) updateStatus(restricted bool) {
	if restricted {
		c.ui.SetStatus(StatusKey, StatusText)
	} else {
		c.ui.SetStatus(StatusKey, "")
	}
	c.ui.SetWidget(StatusKey, nil)
}

func (c *Controller) recordTransition(to model.Mode, reason string) {
	c.record(audit.Entry{
		Event:  audit.EventModeChange,
		Mode:   string(to),
		Reason: reason,
	})
}

func (c *Controller) record(e audit.Entry) {
	if c.recorder == nil {
		return
	}
	c.mu.Lock()
	e.SessionID = c.sessionID
	e.ConfigHash = c.configHash
	c.mu.Unlock()

	if err := c.recorder.Record(e); err != nil {
		c.logger.Warn("audit record failed", "event", e.Event, "error", err)
	}
}

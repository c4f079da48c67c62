// Package engine assembles a ready-to-use ask-mode stack from configuration:
// an in-process session, its controller, the event dispatcher and the
// optional audit log. The MCP and gRPC servers and the CLI all build on it.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ppiankov/askmode/internal/audit"
	"github.com/ppiankov/askmode/internal/config"
	"github.com/ppiankov/askmode/internal/logging"
	"github.com/ppiankov/askmode/internal/mode"
	"github.com/ppiankov/askmode/internal/session"
)

// Options holds engine construction parameters.
type Options struct {
	ConfigPath   string
	AuditLogPath string // overrides audit_log from the config file
	SessionID    string
	Logger       *slog.Logger
	UI           mode.UI
	Responder    session.Responder
}

// Engine is one ask-mode session and the controller guarding it.
type Engine struct {
	Session    *session.Session
	Controller *mode.Controller
	Dispatcher *mode.Dispatcher

	configPath string
	logger     *slog.Logger
	auditLog   *audit.Log

	mu         sync.Mutex
	cfg        *config.Config
	configHash string
}

// New loads configuration and builds the engine.
func New(opts Options) (*Engine, error) {
	cfg, hash, err := config.LoadConfigWithHash(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	classifier, err := cfg.Classifier()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	auditPath := cfg.AuditLog
	if opts.AuditLogPath != "" {
		auditPath = opts.AuditLogPath
	}
	var auditLog *audit.Log
	if auditPath != "" {
		auditLog, err = audit.Open(auditPath)
		if err != nil {
			return nil, fmt.Errorf("engine: open audit log: %w", err)
		}
	}

	sessOpts := []session.Option{}
	if opts.SessionID != "" {
		sessOpts = append(sessOpts, session.WithID(opts.SessionID))
	}
	if opts.Responder != nil {
		sessOpts = append(sessOpts, session.WithResponder(opts.Responder))
	}
	sess := session.New(cfg.DefaultSet(), sessOpts...)

	ctrlOpts := []mode.Option{
		mode.WithClassifier(classifier),
		mode.WithCapabilitySets(cfg.RestrictedSet(), cfg.DefaultSet()),
		mode.WithLogger(logger),
		mode.WithSessionID(sess.ID()),
		mode.WithConfigHash(hash),
	}
	if auditLog != nil {
		ctrlOpts = append(ctrlOpts, mode.WithRecorder(auditLog))
	}
	ctrl := mode.New(sess, opts.UI, ctrlOpts...)

	return &Engine{
		Session:    sess,
		Controller: ctrl,
		Dispatcher: mode.NewDispatcher(ctrl),
		configPath: opts.ConfigPath,
		logger:     logger,
		auditLog:   auditLog,
		cfg:        cfg,
		configHash: hash,
	}, nil
}

// Config returns the configuration currently applied.
func (e *Engine) Config() *config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// ConfigHash returns the hash of the applied configuration file.
func (e *Engine) ConfigHash() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.configHash
}

// ConfigPath returns the path configuration was loaded from.
func (e *Engine) ConfigPath() string {
	if e.configPath == "" {
		return config.DefaultPath()
	}
	return e.configPath
}

// WatchPaths lists the files whose changes should trigger Reload: the
// config file and, when configured, the allowlist file.
func (e *Engine) WatchPaths() []string {
	paths := []string{e.ConfigPath()}
	if f := e.Config().AllowlistFile; f != "" {
		paths = append(paths, f)
	}
	return paths
}

// AuditLogPath returns the audit log path, or "" when auditing is off.
func (e *Engine) AuditLogPath() string {
	if e.auditLog == nil {
		return ""
	}
	return e.auditLog.Path()
}

// Reload re-reads the configuration file and applies it to the
// controller. On error the running configuration is kept.
func (e *Engine) Reload() error {
	cfg, hash, err := config.LoadConfigWithHash(e.configPath)
	if err != nil {
		return fmt.Errorf("engine: reload: %w", err)
	}
	if err := e.Controller.ApplyConfig(cfg, hash); err != nil {
		return fmt.Errorf("engine: reload: %w", err)
	}

	e.mu.Lock()
	e.cfg = cfg
	e.configHash = hash
	e.mu.Unlock()
	return nil
}

// Close closes the audit log if configured.
func (e *Engine) Close() error {
	if e.auditLog != nil {
		return e.auditLog.Close()
	}
	return nil
}

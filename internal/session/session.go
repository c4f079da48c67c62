// Package session provides an in-process agent host: a tool set, a
// transcript and a busy/idle signal. The CLI drives the ask-mode controller
// against it, and tests use it as a realistic Host.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ppiankov/askmode/internal/mode"
	"github.com/ppiankov/askmode/internal/model"
)

// Responder answers a user message. It runs on its own goroutine and the
// session is marked idle when it returns.
type Responder func(ctx context.Context, s *Session, msg model.Message)

// Session is an in-memory mode.Host.
type Session struct {
	id        string
	ctx       context.Context
	responder Responder

	mu         sync.Mutex
	tools      model.CapabilitySet
	transcript []model.Message
	pending    int
	idle       chan struct{}
}

// Option configures a Session.
type Option func(*Session)

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithResponder sets the agent that answers user messages. Without one,
// messages stay pending until MarkIdle.
func WithResponder(r Responder) Option {
	return func(s *Session) { s.responder = r }
}

// WithContext sets the context passed to the responder.
func WithContext(ctx context.Context) Option {
	return func(s *Session) { s.ctx = ctx }
}

// New creates an idle session exposing tools.
func New(tools model.CapabilitySet, opts ...Option) *Session {
	idle := make(chan struct{})
	close(idle)
	s := &Session{
		id:    uuid.NewString(),
		ctx:   context.Background(),
		tools: tools.Clone(),
		idle:  idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// ActiveTools returns a copy of the current tool set.
func (s *Session) ActiveTools() model.CapabilitySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.Clone()
}

// SetActiveTools replaces the tool set.
func (s *Session) SetActiveTools(tools model.CapabilitySet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = tools.Clone()
}

// SendUserMessage appends text to the transcript and marks the session busy
// until the responder finishes.
func (s *Session) SendUserMessage(text string, delivery mode.Delivery) {
	msg := model.Message{Role: model.RoleUser, Content: model.TextContent(text), Display: true}

	s.mu.Lock()
	s.transcript = append(s.transcript, msg)
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
	responder := s.responder
	s.mu.Unlock()

	if responder == nil {
		return
	}
	go func() {
		defer s.MarkIdle()
		responder(s.ctx, s, msg)
	}()
}

// MarkIdle finishes one pending message. The session is idle once every
// message has been finished.
func (s *Session) MarkIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == 0 {
		return
	}
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

// Busy reports whether any message is still being answered.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

// WaitForIdle blocks until no message is pending or ctx is done.
func (s *Session) WaitForIdle(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Append adds a message to the transcript, such as an agent reply or an
// injected advisory.
func (s *Session) Append(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, msg)
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ReplaceTranscript swaps the transcript, as a context filter does.
func (s *Session) ReplaceTranscript(msgs []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append([]model.Message(nil), msgs...)
}

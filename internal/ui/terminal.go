// Package ui renders controller notifications and status on a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/ppiankov/askmode/internal/mode"
)

var (
	colorInfo    = lipgloss.Color("39")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("245")
)

// Terminal implements mode.UI on an io.Writer. Colors are used only when
// the writer is a terminal.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	r       *lipgloss.Renderer
	status  map[string]string
	widgets map[string][]string
}

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	profile := termenv.Ascii
	if IsTerminal(w) {
		profile = termenv.ANSI256
	}
	return NewTerminalWithProfile(w, profile)
}

// NewTerminalWithProfile creates a Terminal with a fixed color profile.
func NewTerminalWithProfile(w io.Writer, profile termenv.Profile) *Terminal {
	return &Terminal{
		w:       w,
		r:       lipgloss.NewRenderer(w, termenv.WithProfile(profile)),
		status:  map[string]string{},
		widgets: map[string][]string{},
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *Terminal) levelStyle(level mode.Level) lipgloss.Style {
	s := t.r.NewStyle().Bold(true)
	switch level {
	case mode.LevelWarning:
		return s.Foreground(colorWarning)
	case mode.LevelError:
		return s.Foreground(colorError)
	default:
		return s.Foreground(colorInfo)
	}
}

// Notify prints a one-line notification.
func (t *Terminal) Notify(text string, level mode.Level) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tag := t.levelStyle(level).Render(string(level))
	fmt.Fprintf(t.w, "%s %s\n", tag, text)
}

// SetStatus stores text under key, or clears key when text is empty.
func (t *Terminal) SetStatus(key, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if text == "" {
		delete(t.status, key)
		return
	}
	t.status[key] = text
}

// SetWidget stores lines under key, or clears key when lines is nil.
func (t *Terminal) SetWidget(key string, lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if lines == nil {
		delete(t.widgets, key)
		return
	}
	t.widgets[key] = append([]string(nil), lines...)
}

// Status returns the raw text stored under key.
func (t *Terminal) Status(key string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status[key]
}

// StatusLine renders every status entry, sorted by key.
func (t *Terminal) StatusLine() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.status) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.status))
	for k := range t.status {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	style := t.r.NewStyle().Foreground(colorWarning)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = style.Render(t.status[k])
	}
	return strings.Join(parts, "  ")
}

// Prompt renders the REPL prompt: widget lines above, status line before
// the arrow.
func (t *Terminal) Prompt() string {
	var b strings.Builder
	for _, line := range t.Widgets() {
		b.WriteString(line + "\n")
	}
	if line := t.StatusLine(); line != "" {
		b.WriteString(line + " ")
	}
	b.WriteString(t.r.NewStyle().Foreground(colorMuted).Render("> "))
	return b.String()
}

// Widgets renders every widget, sorted by key.
func (t *Terminal) Widgets() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make([]string, 0, len(t.widgets))
	for k := range t.widgets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		out = append(out, t.widgets[k]...)
	}
	return out
}

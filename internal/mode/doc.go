// Package mode implements ask mode: a togglable read-only state for a coding
// agent.
//
// While ask mode is on, the host's active tool set is swapped for a
// read-only one and every bash tool call is checked against the safecmd
// allowlist before it runs. The controller plugs into the host at three
// points, composed in one table by NewDispatcher:
//
//   - tool_call: veto non-allowlisted bash commands
//   - context: strip stale ask-mode advisories once the mode is off
//   - before_agent_start: inject the advisory while the mode is on
//
// The /ask command toggles the mode, or with a question, answers it under
// restriction and restores the previous tool set afterwards.
//
// Mode transitions are serialized; hook handlers never wait on them. Host
// and UI implementations must not call back into the controller from
// SetActiveTools or Notify.
//
// Liveness: Ask waits for the host to report idle with no timeout of its
// own. If the host never goes idle the controller stays restricted until
// the user toggles it off.
package mode

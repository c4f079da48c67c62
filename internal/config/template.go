package config

// DefaultConfigYAML returns a commented YAML string for init-config.
func DefaultConfigYAML() string {
	return `# askmode configuration
# Generated by: askmode init-config
#
# Any section left out keeps its built-in default. The allowlist section,
# when present, replaces the built-in allowlist entirely.

# Tools active while ask mode is on, in the order the host receives them.
restricted_tools: [read, bash, grep, find, ls, questionnaire]

# Tools restored on exit when no tool set was captured on entry.
default_tools: [read, bash, edit, write]

# YAML file with commands, subcommands and unsafe keys. When set it
# replaces the allowlist section. Relative paths are resolved against this
# file's directory.
allowlist_file: ""

# Append-only hash-chained record of verdicts and mode changes.
# Empty disables auditing.
audit_log: ""

log:
  level: info    # debug | info | warn | error
  format: text   # text | json

# Bash commands allowed in ask mode.
# A command is allowed only if:
#   - it contains no ; & | > < backtick $( ${ or newline
#   - its first word is listed under commands (no paths, no VAR=value)
#   - for leaders under subcommands, its second word is listed there
#   - no unsafe regex matches the whitespace-normalized command
# Uncomment to replace the built-in allowlist:
#
# allowlist:
#   commands: [ls, cat, head, tail, grep, rg, find, pwd, wc, git]
#   subcommands:
#     git: [status, log, diff, show]
#   unsafe:
#     - '^find\b.*\s-(delete|exec|execdir|ok|okdir)(\s|$)'
`
}

// DefaultConfigTOML returns the TOML equivalent of DefaultConfigYAML.
func DefaultConfigTOML() string {
	return `# askmode configuration
# Generated by: askmode init-config --toml
#
# Any section left out keeps its built-in default. The [allowlist] table,
# when present, replaces the built-in allowlist entirely.

restricted_tools = ["read", "bash", "grep", "find", "ls", "questionnaire"]
default_tools = ["read", "bash", "edit", "write"]
allowlist_file = ""
audit_log = ""

[log]
level = "info"
format = "text"

# [allowlist]
# commands = ["ls", "cat", "head", "tail", "grep", "rg", "find", "pwd", "wc", "git"]
# unsafe = ['^find\b.*\s-(delete|exec|execdir|ok|okdir)(\s|$)']
#
# [allowlist.subcommands]
# git = ["status", "log", "diff", "show"]
`
}

package safecmd

// DefaultPatterns is the built-in allowlist. Leaders here only read state:
// listing, reading, searching, path resolution and status queries.
var DefaultPatterns = Patterns{
	Commands: []string{
		// reading
		"cat", "head", "tail", "less", "more", "nl", "od", "hexdump", "cut", "jq",
		// searching
		"grep", "egrep", "fgrep", "rg", "ag", "find", "fd",
		// listing and paths
		"ls", "tree", "pwd", "basename", "dirname", "realpath", "readlink",
		"which", "whereis", "type", "file", "stat",
		// status queries
		"echo", "printf", "wc", "sort", "diff", "cmp", "du", "df",
		"whoami", "id", "uname", "date", "uptime", "ps",
		"md5sum", "sha1sum", "sha256sum",
		// toolchains, gated by Subcommands
		"git", "go", "npm", "pip", "pip3", "cargo",
	},
	Subcommands: map[string][]string{
		"git": {
			"status", "log", "diff", "show", "blame", "branch", "remote",
			"ls-files", "ls-tree", "rev-parse", "describe", "shortlog",
			"grep", "cat-file",
		},
		"go":    {"version", "list", "doc"},
		"npm":   {"list", "ls", "view", "outdated"},
		"pip":   {"list", "show", "freeze"},
		"pip3":  {"list", "show", "freeze"},
		"cargo": {"tree", "metadata"},
	},
	// Short flags may be clustered ("sort -ro out in"), so single-letter
	// write or exec flags are matched anywhere in a "-xyz" group.
	Unsafe: []string{
		`^find\b.*\s-(delete|exec|execdir|ok|okdir|fprint|fprint0|fprintf|fls)(\s|$)`,
		`^fd\b.*\s(-[a-zA-Z]*[xX]|--exec|--exec-batch)`,
		`^rg\b.*\s--pre(\s|=|$)`,
		`^sort\b.*\s(-[a-zA-Z]*o|--output)`,
		`^tree\b.*\s-[a-zA-Z]*o`,
		`^date\b.*\s(-s|--set)`,
		`^date\s+[0-9]`,
		`\s--output(\s|=|$)`,
		`^git\s+grep\b.*\s(-[a-zA-Z]*O|--open-files-in-pager)`,
		`^git\s+branch\b.*\s(-d|-D|-m|-M|-c|-C|-f|-u|--delete|--move|--copy|--force|--set-upstream-to|--unset-upstream|--edit-description)(\s|=|$)`,
		`^git\s+branch(\s+-\S+)*\s+[^-\s]`,
		`^git\s+remote\s+(add|remove|rm|rename|set-url|set-head|set-branches|prune|update)(\s|$)`,
	},
}

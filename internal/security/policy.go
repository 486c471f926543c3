// Package security holds the command execution policy: what a command may
// look like, what it may never contain, and how long it may run. The policy
// is plain data so the config layer can override any part of it; the default
// set below is the documented contract published by the get_security_info
// tool.
package security

import (
	"sort"
	"time"
)

// Policy bounds what the executor will accept and run.
type Policy struct {
	// MaxCommandLength is the upper bound on the raw command string.
	MaxCommandLength int
	// Timeout is the hard wall-clock limit for a single command.
	Timeout time.Duration
	// BlockedCommands are program names refused wherever they appear as a
	// shell word, compared case-insensitively.
	BlockedCommands []string
	// BlockedPatterns are substrings refused anywhere in the command, such
	// as shell chaining and redirection operators.
	BlockedPatterns []string
	// DangerousChars are character sequences refused as a final catch-all
	// after the pattern check.
	DangerousChars []string
	// EnvPassthrough names the caller environment variables forwarded to
	// the subprocess. PWD is always set separately to the working directory.
	EnvPassthrough []string
	// SafeCommands is an advisory list of known-good examples surfaced by
	// the list_safe_commands tool. It is documentation, not an allowlist.
	SafeCommands []string
}

// DefaultPolicy returns the conservative baseline policy.
func DefaultPolicy() *Policy {
	return &Policy{
		MaxCommandLength: 1000,
		Timeout:          30 * time.Second,
		BlockedCommands: []string{
			"rm", "rmdir", "del", "format", "fdisk", "mkfs",
			"dd", "shutdown", "reboot", "halt", "poweroff",
			"sudo", "su", "passwd", "chown", "chmod",
			"crontab", "at", "batch", "systemctl", "service",
			"kill", "killall",
		},
		BlockedPatterns: []string{
			"&&", "||", ";", "|", "&", ">", ">>", "<", "`", "$(",
			"eval", "exec", "source", "wget", "curl -X",
		},
		DangerousChars: []string{"$(", "`", "{", "}"},
		EnvPassthrough: []string{"PATH", "HOME", "USER"},
		SafeCommands: []string{
			"ls -la",
			"pwd",
			"whoami",
			"date",
			"echo 'hello world'",
			"cat /etc/os-release",
			"ps aux",
			"df -h",
			"free -h",
			"uptime",
			"which go",
			"go version",
			"git status",
			"git log --oneline -5",
		},
	}
}

// Info is the payload of the get_security_info tool.
type Info struct {
	MaxCommandLength              int      `json:"max_command_length"`
	TimeoutSeconds                int      `json:"timeout_seconds"`
	BlockedCommands               []string `json:"blocked_commands"`
	BlockedPatterns               []string `json:"blocked_patterns"`
	EnvironmentVariablesAvailable []string `json:"environment_variables_available"`
	SecurityFeatures              []string `json:"security_features"`
}

// Info describes the active policy for clients deciding what to send.
func (p *Policy) Info() Info {
	blocked := append([]string{}, p.BlockedCommands...)
	sort.Strings(blocked)

	env := append([]string{}, p.EnvPassthrough...)
	env = append(env, "PWD")

	return Info{
		MaxCommandLength:              p.MaxCommandLength,
		TimeoutSeconds:                int(p.Timeout / time.Second),
		BlockedCommands:               blocked,
		BlockedPatterns:               append([]string{}, p.BlockedPatterns...),
		EnvironmentVariablesAvailable: env,
		SecurityFeatures: []string{
			"Command length validation",
			"Dangerous command blocking",
			"Pattern-based filtering",
			"Execution timeout",
			"Limited environment",
			"Working directory validation",
			"Safe character validation",
		},
	}
}

package security

import (
	"fmt"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// Kind tags the policy rule a rejected command tripped.
type Kind string

const (
	KindTooLong        Kind = "too_long"
	KindUnparseable    Kind = "unparseable"
	KindBlockedCommand Kind = "blocked_command"
	KindBlockedPattern Kind = "blocked_pattern"
	KindDangerousChars Kind = "dangerous_chars"
)

// Rejection is the verdict for a command the policy refuses. It is a value,
// not an error: a rejected command is a normal outcome of validation.
type Rejection struct {
	Kind   Kind
	Detail string // offending token or pattern, when one exists
	Reason string // human-readable reason, as reported to the caller
}

// Check validates a command against the policy without side effects. It
// returns nil when the command may be executed, otherwise the first rule
// violation found. Checks run in order: length, word blocklist, pattern
// blocklist, dangerous characters.
func (p *Policy) Check(command string) *Rejection {
	if len(command) > p.MaxCommandLength {
		return &Rejection{
			Kind:   KindTooLong,
			Reason: fmt.Sprintf("Command too long (max %d characters)", p.MaxCommandLength),
		}
	}

	lower := strings.ToLower(command)

	// Split the way a shell would so quoting cannot hide a blocked word.
	// The parser stops at the first unquoted control operator, so every
	// control operator must also appear in BlockedPatterns. A command the
	// parser cannot make sense of is refused outright.
	words, err := shellwords.Parse(lower)
	if err != nil {
		return &Rejection{
			Kind:   KindUnparseable,
			Reason: "Command could not be parsed: " + err.Error(),
		}
	}
	for _, word := range words {
		for _, blocked := range p.BlockedCommands {
			if word == strings.ToLower(blocked) {
				return &Rejection{
					Kind:   KindBlockedCommand,
					Detail: word,
					Reason: "Blocked command: " + word,
				}
			}
		}
	}

	for _, pattern := range p.BlockedPatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return &Rejection{
				Kind:   KindBlockedPattern,
				Detail: pattern,
				Reason: "Blocked pattern detected: " + pattern,
			}
		}
	}

	for _, seq := range p.DangerousChars {
		if strings.Contains(command, seq) {
			return &Rejection{
				Kind:   KindDangerousChars,
				Detail: seq,
				Reason: "Command contains potentially dangerous characters",
			}
		}
	}

	return nil
}

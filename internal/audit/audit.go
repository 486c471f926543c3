// Package audit keeps an append-only trail of every command request the
// server handled: what was asked, whether it ran, and how it ended.
package audit

import (
	"context"
	"time"
)

// Entry records one command request.
type Entry struct {
	Command    string    `json:"command"`
	WorkingDir string    `json:"working_dir"`
	Outcome    string    `json:"outcome"`
	ReturnCode int       `json:"return_code"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	TS         time.Time `json:"ts"`
}

// Sink receives entries. Implementations must be safe for concurrent use;
// tool handlers write to the sink from parallel requests.
type Sink interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

// NopSink drops every entry. Used when auditing is disabled.
type NopSink struct{}

func (NopSink) Record(context.Context, Entry) error { return nil }

func (NopSink) Close() error { return nil }

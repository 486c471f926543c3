package mcpsandbox

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaharia-lab/goai/observability"
)

// MockLogger records every line routed through it for test assertions.
// Loggers derived via WithFields, WithContext or WithErr share the parent's
// record, so lines logged through a derived logger stay visible on the root.
type MockLogger struct {
	rec    *logRecord
	fields map[string]interface{}
	err    error
}

type logRecord struct {
	mu    sync.Mutex
	lines []MockLogLine
}

// MockLogLine is one captured log call.
type MockLogLine struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Err     error
}

// NewMockLogger creates a new MockLogger instance
func NewMockLogger() *MockLogger {
	return &MockLogger{
		rec:    &logRecord{},
		fields: map[string]interface{}{},
	}
}

func (m *MockLogger) log(level, msg string) {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	fields := make(map[string]interface{}, len(m.fields))
	for k, v := range m.fields {
		fields[k] = v
	}
	m.rec.lines = append(m.rec.lines, MockLogLine{
		Level:   level,
		Message: msg,
		Fields:  fields,
		Err:     m.err,
	})
}

func (m *MockLogger) Debug(args ...interface{}) { m.log("debug", fmt.Sprint(args...)) }
func (m *MockLogger) Info(args ...interface{})  { m.log("info", fmt.Sprint(args...)) }
func (m *MockLogger) Warn(args ...interface{})  { m.log("warn", fmt.Sprint(args...)) }
func (m *MockLogger) Error(args ...interface{}) { m.log("error", fmt.Sprint(args...)) }
func (m *MockLogger) Fatal(args ...interface{}) { m.log("fatal", fmt.Sprint(args...)) }
func (m *MockLogger) Panic(args ...interface{}) { m.log("panic", fmt.Sprint(args...)) }

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.log("debug", fmt.Sprintf(format, args...))
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.log("info", fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.log("warn", fmt.Sprintf(format, args...))
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.log("error", fmt.Sprintf(format, args...))
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.log("fatal", fmt.Sprintf(format, args...))
}

func (m *MockLogger) Panicf(format string, args ...interface{}) {
	m.log("panic", fmt.Sprintf(format, args...))
}

func (m *MockLogger) WithFields(fields map[string]interface{}) observability.Logger {
	merged := make(map[string]interface{}, len(m.fields)+len(fields))
	for k, v := range m.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &MockLogger{rec: m.rec, fields: merged, err: m.err}
}

func (m *MockLogger) WithContext(_ context.Context) observability.Logger {
	return m
}

func (m *MockLogger) WithErr(err error) observability.Logger {
	return &MockLogger{rec: m.rec, fields: m.fields, err: err}
}

// Lines returns a copy of everything recorded so far.
func (m *MockLogger) Lines() []MockLogLine {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	return append([]MockLogLine{}, m.rec.lines...)
}

// Messages returns only the recorded message strings, in order.
func (m *MockLogger) Messages() []string {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	out := make([]string, 0, len(m.rec.lines))
	for _, line := range m.rec.lines {
		out = append(out, line.Message)
	}
	return out
}

// Package toolset wires the sandboxed command runner into an MCP server:
// tool definitions, typed handlers, and the audit and metrics hooks around
// them.
package toolset

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/chronicblondiee/mcp-sandbox/internal/audit"
	"github.com/chronicblondiee/mcp-sandbox/internal/security"
	"github.com/chronicblondiee/mcp-sandbox/internal/shell"
)

type ToolSet struct {
	runner *shell.Runner
	sink   audit.Sink
	logger zerolog.Logger
}

// New builds a ToolSet enforcing the given policy. A nil sink disables
// auditing.
func New(policy *security.Policy, sink audit.Sink, logger zerolog.Logger) *ToolSet {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &ToolSet{
		runner: shell.NewRunner(policy),
		sink:   sink,
		logger: logger,
	}
}

// RegisterServer registers every tool on the server.
func (ts *ToolSet) RegisterServer(server *mcp.Server) error {
	mcp.AddTool(server, ExecuteBash, ts.ExecuteBashHandler)
	mcp.AddTool(server, ListSafeCommands, ts.ListSafeCommandsHandler)
	mcp.AddTool(server, GetSecurityInfo, ts.GetSecurityInfoHandler)
	return nil
}

func (ts *ToolSet) Close() error {
	return ts.sink.Close()
}

func (ts *ToolSet) record(ctx context.Context, run shell.Result) {
	entry := audit.Entry{
		Command:    run.Command,
		WorkingDir: run.WorkingDir,
		Outcome:    string(run.Outcome),
		ReturnCode: run.ReturnCode,
		Error:      run.Error,
		DurationMS: run.Duration.Milliseconds(),
	}
	if err := ts.sink.Record(ctx, entry); err != nil {
		ts.logger.Warn().Err(err).Msg("audit record failed")
	}
}

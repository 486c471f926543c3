package toolset

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chronicblondiee/mcp-sandbox/internal/observability"
	"github.com/chronicblondiee/mcp-sandbox/internal/security"
	"github.com/chronicblondiee/mcp-sandbox/internal/shell"
)

func (ts *ToolSet) ExecuteBashHandler(ctx context.Context,
	_ *mcp.CallToolRequest, args ExecuteBashParams,
) (*mcp.CallToolResult, *CommandResult, error) {
	ts.logger.Info().
		Str("tool", ExecuteBash.Name).
		Str("command", args.Command).
		Str("working_directory", args.WorkingDirectory).
		Msg("command received")

	run := ts.runner.Execute(ctx, args.Command, args.WorkingDirectory)

	ts.record(ctx, run)
	observability.RecordToolInvocation(ExecuteBash.Name, string(run.Outcome), run.Duration)

	event := ts.logger.Info()
	if !run.Success {
		event = ts.logger.Warn()
	}
	event.
		Str("tool", ExecuteBash.Name).
		Str("outcome", string(run.Outcome)).
		Int("return_code", run.ReturnCode).
		Dur("duration", run.Duration).
		Msg("command finished")

	res := commandResultFrom(run)
	return &mcp.CallToolResult{StructuredContent: res}, res, nil
}

func (ts *ToolSet) ListSafeCommandsHandler(ctx context.Context,
	_ *mcp.CallToolRequest, _ ListSafeCommandsParams,
) (*mcp.CallToolResult, *SafeCommandsResult, error) {
	start := time.Now()
	res := &SafeCommandsResult{Commands: ts.runner.Policy().SafeCommands}
	observability.RecordToolInvocation(ListSafeCommands.Name, "ok", time.Since(start))
	return &mcp.CallToolResult{StructuredContent: res}, res, nil
}

func (ts *ToolSet) GetSecurityInfoHandler(ctx context.Context,
	_ *mcp.CallToolRequest, _ GetSecurityInfoParams,
) (*mcp.CallToolResult, *security.Info, error) {
	start := time.Now()
	info := ts.runner.Policy().Info()
	observability.RecordToolInvocation(GetSecurityInfo.Name, "ok", time.Since(start))
	return &mcp.CallToolResult{StructuredContent: &info}, &info, nil
}

func commandResultFrom(run shell.Result) *CommandResult {
	return &CommandResult{
		Success:    run.Success,
		Stdout:     run.Stdout,
		Stderr:     run.Stderr,
		ReturnCode: run.ReturnCode,
		Command:    run.Command,
		WorkingDir: run.WorkingDir,
		Error:      run.Error,
	}
}

package mcpsandbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shaharia-lab/goai/mcp"
	"github.com/shaharia-lab/goai/observability"
	"go.opentelemetry.io/otel/attribute"

	"github.com/chronicblondiee/mcp-sandbox/internal/security"
	"github.com/chronicblondiee/mcp-sandbox/internal/shell"
)

const ExecuteBashToolName = "execute_bash"

// Bash exposes sandboxed bash command execution as MCP tools. Every command
// passes the security policy before anything is spawned.
type Bash struct {
	logger observability.Logger
	runner *shell.Runner
}

// BashConfig holds the configuration for the Bash tool family.
type BashConfig struct {
	// Policy overrides the default security policy when set.
	Policy *security.Policy
}

// NewBash creates a new instance of the Bash wrapper with the default policy
func NewBash(logger observability.Logger) *Bash {
	return NewBashWithConfig(logger, BashConfig{})
}

// NewBashWithConfig creates a new instance of the Bash wrapper
func NewBashWithConfig(logger observability.Logger, config BashConfig) *Bash {
	policy := config.Policy
	if policy == nil {
		policy = security.DefaultPolicy()
	}
	return &Bash{
		logger: logger,
		runner: shell.NewRunner(policy),
	}
}

// ExecuteBashTool returns a mcp.Tool that runs one bash command and reports
// the full outcome, including rejections, as a JSON result
func (b *Bash) ExecuteBashTool() mcp.Tool {
	return mcp.Tool{
		Name:        ExecuteBashToolName,
		Description: "Execute a bash command safely with security restrictions, a reduced environment, and an execution timeout",
		InputSchema: json.RawMessage(`{
            "type": "object",
            "properties": {
                "command": {
                    "type": "string",
                    "description": "Bash command to execute (max 1000 characters)"
                },
                "working_directory": {
                    "type": "string",
                    "description": "Optional directory to run the command in"
                }
            },
            "required": ["command"]
        }`),
		Handler: func(ctx context.Context, params mcp.CallToolParams) (mcp.CallToolResult, error) {
			ctx, span := observability.StartSpan(ctx, fmt.Sprintf("%s.Handler", params.Name))
			span.SetAttributes(
				attribute.String("tool_name", params.Name),
				attribute.String("tool_argument", string(params.Arguments)),
			)
			defer span.End()

			var input struct {
				Command          string `json:"command"`
				WorkingDirectory string `json:"working_directory"`
			}

			b.logger.WithFields(map[string]interface{}{"tool": ExecuteBashToolName}).Info("Received input", "input", string(params.Arguments))

			if err := json.Unmarshal(params.Arguments, &input); err != nil {
				b.logger.WithFields(map[string]interface{}{
					observability.ErrorLogField: err,
					"raw_input":                 string(params.Arguments),
				}).Error("Failed to unmarshal input parameters")

				span.RecordError(err)
				return returnErrorOutput(err), nil
			}

			result := b.runner.Execute(ctx, input.Command, input.WorkingDirectory)
			if result.Success {
				b.logger.WithFields(map[string]interface{}{
					"tool":        ExecuteBashToolName,
					"return_code": result.ReturnCode,
				}).Info("Bash command executed successfully")
			} else {
				b.logger.WithFields(map[string]interface{}{
					"tool":    ExecuteBashToolName,
					"outcome": string(result.Outcome),
				}).Warn("Bash command did not succeed", "error", result.Error)
			}

			return mcp.CallToolResult{
				Content: []mcp.ToolResultContent{{Type: "text", Text: mustMarshal(result)}},
				IsError: false,
			}, nil
		},
	}
}

package mcpsandbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shaharia-lab/goai/mcp"
	"github.com/shaharia-lab/goai/observability"
	"go.opentelemetry.io/otel/attribute"
)

const ListSafeCommandsToolName = "list_safe_commands"

// ListSafeCommandsTool returns a mcp.Tool that lists example commands known
// to pass the security policy
func (b *Bash) ListSafeCommandsTool() mcp.Tool {
	return mcp.Tool{
		Name:        ListSafeCommandsToolName,
		Description: "Get a list of commonly used safe commands that can be executed",
		InputSchema: json.RawMessage(`{
            "type": "object",
            "properties": {}
        }`),
		Handler: func(ctx context.Context, params mcp.CallToolParams) (mcp.CallToolResult, error) {
			_, span := observability.StartSpan(ctx, fmt.Sprintf("%s.Handler", params.Name))
			span.SetAttributes(attribute.String("tool_name", params.Name))
			defer span.End()

			commands := b.runner.Policy().SafeCommands
			b.logger.WithFields(map[string]interface{}{
				"tool":  ListSafeCommandsToolName,
				"count": len(commands),
			}).Info("Listing safe commands")

			return mcp.CallToolResult{
				Content: []mcp.ToolResultContent{{Type: "text", Text: mustMarshal(commands)}},
				IsError: false,
			}, nil
		},
	}
}

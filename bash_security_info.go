package mcpsandbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shaharia-lab/goai/mcp"
	"github.com/shaharia-lab/goai/observability"
	"go.opentelemetry.io/otel/attribute"
)

const GetSecurityInfoToolName = "get_security_info"

// GetSecurityInfoTool returns a mcp.Tool that describes the active security
// policy so clients can decide what to send before trying
func (b *Bash) GetSecurityInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        GetSecurityInfoToolName,
		Description: "Get information about the security measures in place for bash command execution",
		InputSchema: json.RawMessage(`{
            "type": "object",
            "properties": {}
        }`),
		Handler: func(ctx context.Context, params mcp.CallToolParams) (mcp.CallToolResult, error) {
			_, span := observability.StartSpan(ctx, fmt.Sprintf("%s.Handler", params.Name))
			span.SetAttributes(attribute.String("tool_name", params.Name))
			defer span.End()

			info := b.runner.Policy().Info()
			b.logger.WithFields(map[string]interface{}{"tool": GetSecurityInfoToolName}).Info("Reporting security info")

			return mcp.CallToolResult{
				Content: []mcp.ToolResultContent{{Type: "text", Text: mustMarshal(info)}},
				IsError: false,
			}, nil
		},
	}
}

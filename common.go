package mcpsandbox

import (
	"encoding/json"

	"github.com/shaharia-lab/goai/mcp"
)

func returnErrorOutput(err error) mcp.CallToolResult {
	return mcp.CallToolResult{
		Content: []mcp.ToolResultContent{
			{
				Type: "text",
				Text: err.Error(),
			},
		},
		IsError: true,
	}
}

func mustMarshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

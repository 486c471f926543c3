package mcpsandbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shaharia-lab/goai/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicblondiee/mcp-sandbox/internal/security"
)

func TestNewBash(t *testing.T) {
	logger := NewMockLogger()

	bash := NewBash(logger)

	assert.NotNil(t, bash)
	assert.NotNil(t, bash.runner)
	assert.NotNil(t, bash.logger)
}

func TestBash_ExecuteBashTool(t *testing.T) {
	logger := NewMockLogger()
	bash := NewBash(logger)

	tool := bash.ExecuteBashTool()

	// Tool metadata
	assert.Equal(t, ExecuteBashToolName, tool.Name)
	assert.NotEmpty(t, tool.Description)

	var schema map[string]interface{}
	err := json.Unmarshal(tool.InputSchema, &schema)
	assert.NoError(t, err)
	assert.Equal(t, "object", schema["type"])

	// Run a benign command through the handler
	inputJSON, err := json.Marshal(map[string]interface{}{"command": "echo hello"})
	require.NoError(t, err)

	result, err := tool.Handler(context.Background(), mcp.CallToolParams{
		Name:      ExecuteBashToolName,
		Arguments: inputJSON,
	})

	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	var res struct {
		Success    bool   `json:"success"`
		Stdout     string `json:"stdout"`
		ReturnCode int    `json:"return_code"`
		Command    string `json:"command"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &res))
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "hello")
	assert.Equal(t, 0, res.ReturnCode)
	assert.Equal(t, "echo hello", res.Command)

	assert.Contains(t, logger.Messages(), "Bash command executed successfully")
}

func TestBash_ExecuteBashTool_BlockedCommand(t *testing.T) {
	logger := NewMockLogger()
	bash := NewBash(logger)
	tool := bash.ExecuteBashTool()

	inputJSON, err := json.Marshal(map[string]interface{}{"command": "rm -rf /"})
	require.NoError(t, err)

	result, err := tool.Handler(context.Background(), mcp.CallToolParams{
		Name:      ExecuteBashToolName,
		Arguments: inputJSON,
	})

	// A rejected command is a normal result, not a protocol error.
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	var res struct {
		Success    bool   `json:"success"`
		ReturnCode int    `json:"return_code"`
		Error      string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &res))
	assert.False(t, res.Success)
	assert.Equal(t, -1, res.ReturnCode)
	assert.Contains(t, res.Error, "Blocked command: rm")
}

func TestBash_ExecuteBashTool_Timeout(t *testing.T) {
	policy := security.DefaultPolicy()
	policy.Timeout = time.Second

	logger := NewMockLogger()
	bash := NewBashWithConfig(logger, BashConfig{Policy: policy})
	tool := bash.ExecuteBashTool()

	inputJSON, err := json.Marshal(map[string]interface{}{"command": "sleep 5"})
	require.NoError(t, err)

	result, err := tool.Handler(context.Background(), mcp.CallToolParams{
		Name:      ExecuteBashToolName,
		Arguments: inputJSON,
	})

	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	var res struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &res))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "timed out after")
}

func TestBash_ExecuteBashTool_InvalidInput(t *testing.T) {
	logger := NewMockLogger()
	bash := NewBash(logger)
	tool := bash.ExecuteBashTool()

	result, err := tool.Handler(context.Background(), mcp.CallToolParams{
		Name:      ExecuteBashToolName,
		Arguments: json.RawMessage(`{not json`),
	})

	require.NoError(t, err)
	assert.True(t, result.IsError)
}

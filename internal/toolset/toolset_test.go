package toolset

import (
	"context"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronicblondiee/mcp-sandbox/internal/audit"
	"github.com/chronicblondiee/mcp-sandbox/internal/security"
)

// recordingSink keeps audit entries in memory for assertions.
type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *recordingSink) Record(_ context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) all() []audit.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Entry{}, s.entries...)
}

// newTestSession connects an in-memory client to a server carrying the
// toolset and returns the client side.
func newTestSession(t *testing.T, ts *ToolSet) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "bash-command-server", Version: "test"}, nil)
	require.NoError(t, ts.RegisterServer(server))

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func TestRegisterServer_ExposesAllTools(t *testing.T) {
	ts := New(security.DefaultPolicy(), nil, zerolog.Nop())
	session := newTestSession(t, ts)

	tools, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"execute_bash", "list_safe_commands", "get_security_info"}, names)
}

func TestExecuteBash_OverSession(t *testing.T) {
	sink := &recordingSink{}
	ts := New(security.DefaultPolicy(), sink, zerolog.Nop())
	session := newTestSession(t, ts)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "execute_bash",
		Arguments: map[string]any{"command": "echo hello"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, sc["success"])
	assert.Contains(t, sc["stdout"], "hello")
	assert.EqualValues(t, 0, sc["return_code"])

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "echo hello", entries[0].Command)
	assert.Equal(t, "ok", entries[0].Outcome)
}

func TestExecuteBash_RejectionOverSession(t *testing.T) {
	sink := &recordingSink{}
	ts := New(security.DefaultPolicy(), sink, zerolog.Nop())
	session := newTestSession(t, ts)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "execute_bash",
		Arguments: map[string]any{"command": "rm -rf /"},
	})
	require.NoError(t, err)
	// Rejection is reported inside the result, not as a protocol error.
	assert.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, sc["success"])
	assert.EqualValues(t, -1, sc["return_code"])
	assert.Contains(t, sc["error"], "Blocked command: rm")

	entries := sink.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "rejected", entries[0].Outcome)
	assert.Equal(t, -1, entries[0].ReturnCode)
}

func TestListSafeCommands_OverSession(t *testing.T) {
	ts := New(security.DefaultPolicy(), nil, zerolog.Nop())
	session := newTestSession(t, ts)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "list_safe_commands",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)

	sc, ok := result.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	commands, ok := sc["commands"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, commands)
	assert.Contains(t, commands, "pwd")
}

func TestGetSecurityInfo_OverSession(t *testing.T) {
	ts := New(security.DefaultPolicy(), nil, zerolog.Nop())
	session := newTestSession(t, ts)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_security_info",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)

	sc, ok := result.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1000, sc["max_command_length"])
	assert.EqualValues(t, 30, sc["timeout_seconds"])

	blocked, ok := sc["blocked_commands"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, blocked, "rm")
	assert.Contains(t, blocked, "sudo")
}

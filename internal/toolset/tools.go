package toolset

import "github.com/modelcontextprotocol/go-sdk/mcp"

var ExecuteBash = &mcp.Tool{
	Name:        "execute_bash",
	Description: `Execute a bash command safely with security restrictions. Commands are validated against a blocklist before anything runs, executed with a reduced environment, and killed after a timeout.`,
}

type ExecuteBashParams struct {
	Command          string `json:"command" jsonschema:"The bash command to execute (max 1000 characters)."`
	WorkingDirectory string `json:"working_directory,omitempty" jsonschema:"Optional directory to run the command in. Must exist and be a directory."`
}

type CommandResult struct {
	Success    bool   `json:"success" jsonschema:"Whether the command completed with return code 0."`
	Stdout     string `json:"stdout" jsonschema:"Standard output, trimmed of surrounding whitespace."`
	Stderr     string `json:"stderr" jsonschema:"Standard error, trimmed of surrounding whitespace."`
	ReturnCode int    `json:"return_code" jsonschema:"Exit code of the command, or -1 if it never completed."`
	Command    string `json:"command" jsonschema:"The command as requested."`
	WorkingDir string `json:"working_dir" jsonschema:"The directory the command was executed in."`
	Error      string `json:"error,omitempty" jsonschema:"Why the command was blocked or failed. Empty on success."`
}

var ListSafeCommands = &mcp.Tool{
	Name:        "list_safe_commands",
	Description: `Get a list of commonly used safe commands that can be executed.`,
}

type ListSafeCommandsParams struct{}

type SafeCommandsResult struct {
	Commands []string `json:"commands" jsonschema:"Example commands known to pass the security policy."`
}

var GetSecurityInfo = &mcp.Tool{
	Name:        "get_security_info",
	Description: `Get information about the security measures in place for bash command execution.`,
}

type GetSecurityInfoParams struct{}

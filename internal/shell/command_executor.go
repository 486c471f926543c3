package shell

import (
	"context"
	"os/exec"
)

// CommandExecutor interface for executing prepared commands. The runner
// swaps in a mock implementation in tests to prove which inputs never
// reach a subprocess.
type CommandExecutor interface {
	ExecuteCommand(ctx context.Context, cmd *exec.Cmd) error
}

// RealCommandExecutor implements CommandExecutor for real command execution
type RealCommandExecutor struct{}

func (e *RealCommandExecutor) ExecuteCommand(ctx context.Context, cmd *exec.Cmd) error {
	return cmd.Run()
}

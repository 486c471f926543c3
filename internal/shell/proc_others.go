//go:build !windows

package shell

import (
	"os/exec"
	"syscall"
)

// processGroupAttr puts the shell in its own process group so a timeout
// kill reaches everything the command started.
var processGroupAttr = &syscall.SysProcAttr{Setpgid: true}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}

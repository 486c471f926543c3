// Package shell runs validated commands through bash with a reduced
// environment, captured output, and a hard timeout that takes the whole
// process group down with it.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chronicblondiee/mcp-sandbox/internal/security"
)

// Outcome classifies how a command run ended, for logs, metrics, and the
// audit trail.
type Outcome string

const (
	OutcomeOK         Outcome = "ok"
	OutcomeRejected   Outcome = "rejected"
	OutcomeBadWorkdir Outcome = "bad_workdir"
	OutcomeFailed     Outcome = "failed"
	OutcomeTimeout    Outcome = "timeout"
	OutcomeSpawnError Outcome = "spawn_error"
)

// Result is the full account of one command request. Its JSON shape is the
// tool's wire contract; every path through the runner fills it completely.
type Result struct {
	Success    bool   `json:"success"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ReturnCode int    `json:"return_code"`
	Command    string `json:"command"`
	WorkingDir string `json:"working_dir"`
	Error      string `json:"error,omitempty"`

	Outcome   Outcome             `json:"-"`
	Rejection *security.Rejection `json:"-"`
	Duration  time.Duration       `json:"-"`
}

// Runner validates commands against a policy and executes the survivors.
type Runner struct {
	policy      *security.Policy
	cmdExecutor CommandExecutor
}

// NewRunner creates a Runner backed by the real subprocess executor.
func NewRunner(policy *security.Policy) *Runner {
	return &Runner{
		policy:      policy,
		cmdExecutor: &RealCommandExecutor{},
	}
}

// SetExecutor replaces the subprocess executor. Tests use this to observe
// whether a command reached the spawn stage at all.
func (r *Runner) SetExecutor(executor CommandExecutor) {
	r.cmdExecutor = executor
}

// Policy returns the active policy.
func (r *Runner) Policy() *security.Policy {
	return r.policy
}

// Execute runs one command to completion. It never returns an error: every
// failure mode, from policy rejection to timeout, is reported inside the
// Result so the transport layer has nothing to translate.
func (r *Runner) Execute(ctx context.Context, command, workingDir string) Result {
	start := time.Now()

	res := Result{
		Command:    command,
		WorkingDir: workingDir,
		ReturnCode: -1,
	}
	if res.WorkingDir == "" {
		if wd, err := os.Getwd(); err == nil {
			res.WorkingDir = wd
		}
	}

	if rej := r.policy.Check(command); rej != nil {
		res.Error = "Command blocked for security: " + rej.Reason
		res.Outcome = OutcomeRejected
		res.Rejection = rej
		res.Duration = time.Since(start)
		return res
	}

	if workingDir != "" {
		info, err := os.Stat(workingDir)
		if err != nil {
			res.Error = "Working directory does not exist: " + workingDir
			res.Outcome = OutcomeBadWorkdir
			res.Duration = time.Since(start)
			return res
		}
		if !info.IsDir() {
			res.Error = "Working directory path is not a directory: " + workingDir
			res.Outcome = OutcomeBadWorkdir
			res.Duration = time.Since(start)
			return res
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	cmd.Dir = workingDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = r.subprocessEnv(res.WorkingDir)
	cmd.SysProcAttr = processGroupAttr
	// Take the whole process group down on timeout so children of the
	// shell cannot linger and hold the output pipes open.
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = time.Second

	err := r.cmdExecutor.ExecuteCommand(ctx, cmd)
	res.Duration = time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		res.Error = fmt.Sprintf("Command timed out after %d seconds", int(r.policy.Timeout/time.Second))
		res.Outcome = OutcomeTimeout
		return res
	}

	res.Stdout = strings.TrimSpace(stdout.String())
	res.Stderr = strings.TrimSpace(stderr.String())

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Success = true
		res.ReturnCode = 0
		res.Outcome = OutcomeOK
	case errors.As(err, &exitErr):
		res.ReturnCode = exitErr.ExitCode()
		res.Error = fmt.Sprintf("Command failed with return code %d", res.ReturnCode)
		res.Outcome = OutcomeFailed
	default:
		res.Error = "Execution error: " + err.Error()
		res.Outcome = OutcomeSpawnError
	}
	return res
}

// subprocessEnv builds the reduced environment: the policy's passthrough
// variables from the parent process, plus PWD pinned to the working
// directory.
func (r *Runner) subprocessEnv(workingDir string) []string {
	env := make([]string, 0, len(r.policy.EnvPassthrough)+1)
	for _, name := range r.policy.EnvPassthrough {
		env = append(env, name+"="+os.Getenv(name))
	}
	return append(env, "PWD="+workingDir)
}

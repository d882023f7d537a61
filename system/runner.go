// Package system provides domain adapters over OS facilities.
// This file contains the Runner abstraction used by the exec-based
// adapters, including pkexec elevation for mutating commands.
package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/yllada/system-settings/common"
)

// Runner executes external commands on behalf of the adapters.
// Implementations must be safe for concurrent use; tests substitute an
// in-memory fake so that no command is ever spawned.
type Runner interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) (string, error)
	// RunElevated executes a command through pkexec. The polkit agent
	// prompts for authentication on the first elevated command of a
	// session.
	RunElevated(ctx context.Context, name string, args ...string) (string, error)
	// RunElevatedInput is RunElevated with data piped to stdin, for
	// commands such as chpasswd that refuse secrets on the command line.
	RunElevatedInput(ctx context.Context, stdin, name string, args ...string) (string, error)
}

// CommandError is a command failure with its exit status and combined
// output. Adapters inspect Status for command-specific mappings before
// falling back to classifyExec.
type CommandError struct {
	Name   string
	Status int
	Output string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Status)
}

// ExecRunner is the production Runner backed by os/exec. It remembers
// whether an elevated command has succeeded this session, so the
// shell can show that the polkit grant is active.
type ExecRunner struct {
	elevated atomic.Bool
}

// NewRunner creates the production command runner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Elevated reports whether a pkexec command has succeeded this
// session.
func (r *ExecRunner) Elevated() bool {
	return r.elevated.Load()
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	return runCmd(exec.CommandContext(ctx, name, args...), name, "")
}

func (r *ExecRunner) RunElevated(ctx context.Context, name string, args ...string) (string, error) {
	elevated := append([]string{name}, args...)
	out, err := runCmd(exec.CommandContext(ctx, "pkexec", elevated...), name, "")
	if err == nil {
		r.elevated.Store(true)
	}
	return out, err
}

func (r *ExecRunner) RunElevatedInput(ctx context.Context, stdin, name string, args ...string) (string, error) {
	elevated := append([]string{name}, args...)
	out, err := runCmd(exec.CommandContext(ctx, "pkexec", elevated...), name, stdin)
	if err == nil {
		r.elevated.Store(true)
	}
	return out, err
}

func runCmd(cmd *exec.Cmd, name, stdin string) (string, error) {
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.String(), &CommandError{
				Name:   name,
				Status: exitErr.ExitCode(),
				Output: out.String(),
			}
		}
		// The command never ran (missing binary, bad path).
		return out.String(), common.WrapError(common.ErrBackend, err.Error())
	}
	return out.String(), nil
}

// CommandExists reports whether a command is available in PATH.
func CommandExists(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// pkexec exit statuses: 126 is "dialog dismissed", 127 is
// "not authorized". Both surface as a permission failure the page can
// retry after re-prompting.
const (
	pkexecDismissed     = 126
	pkexecNotAuthorized = 127
)

// exitStatus extracts the command exit status, or -1 when the command
// did not run at all.
func exitStatus(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Status
	}
	return -1
}

// classifyExec maps a command failure onto the sentinel taxonomy.
// Adapters with command-specific exit-status knowledge map those
// statuses first and fall back to this helper.
func classifyExec(err error, output string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrBackend) {
		return err
	}

	switch exitStatus(err) {
	case pkexecDismissed, pkexecNotAuthorized:
		return common.WrapError(common.ErrPermissionDenied, strings.TrimSpace(output))
	}

	lower := strings.ToLower(output)
	if strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "not authorized") ||
		strings.Contains(lower, "operation not permitted") {
		return common.WrapError(common.ErrPermissionDenied, strings.TrimSpace(output))
	}

	msg := strings.TrimSpace(output)
	if msg == "" {
		msg = err.Error()
	}
	return common.WrapError(common.ErrBackend, msg)
}

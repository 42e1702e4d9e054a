// Package runner executes Cobra commands while capturing their output.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// CommandResult captures the stdout and stderr collected during a Cobra
// command execution, including any output produced before an error occurred.
type CommandResult struct {
	Stdout string
	Stderr string
}

// CommandRunner executes Cobra commands while capturing their output.
type CommandRunner interface {
	Run(ctx context.Context, cmd *cobra.Command, args []string) (CommandResult, error)
}

// CobraCommandRunner executes any Cobra command with console output. Output
// is displayed to stdout/stderr in real time while also being captured for
// the result.
type CobraCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewCobraCommandRunner creates a command runner that works with any Cobra
// command. If stdout or stderr are nil, they default to os.Stdout and
// os.Stderr respectively.
func NewCobraCommandRunner(stdout, stderr io.Writer) *CobraCommandRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &CobraCommandRunner{
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes a Cobra command with the provided context and arguments.
// Usage and error messages are silenced since this runner handles error
// reporting. Returns the captured output and any error from execution.
func (r *CobraCommandRunner) Run(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	cmd.SetOut(io.MultiWriter(&outBuf, r.stdout))
	cmd.SetErr(io.MultiWriter(&errBuf, r.stderr))

	cmd.SetContext(ctx)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	execErr := cmd.ExecuteContext(ctx)

	result := CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if execErr != nil {
		return result, fmt.Errorf("command execution failed: %w", execErr)
	}

	return result, nil
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// localInterpreter executes payloads on the control host itself.
const localInterpreter = "bash"

// LocalSession executes a payload on the control host. It exists for the
// build pipeline, which runs the same payload contract without a network
// channel, and for running roles directly on the current machine.
type LocalSession struct {
	stdout io.Writer
	stderr io.Writer
}

// NewLocalSession creates a local session. Nil writers default to os.Stdout
// and os.Stderr.
func NewLocalSession(stdout, stderr io.Writer) *LocalSession {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &LocalSession{stdout: stdout, stderr: stderr}
}

// Run pipes the payload into a local interpreter and blocks until it exits.
// A nonzero exit status is reported as an *ExitError, matching the SSH
// session contract.
func (s *LocalSession) Run(ctx context.Context, payload string) error {
	cmd := exec.CommandContext(ctx, localInterpreter, "-s")
	cmd.Stdin = strings.NewReader(payload)
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	logrus.WithField("bytes", len(payload)).Debug("running payload locally")

	runErr := cmd.Run()
	if runErr == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return &ExitError{Status: exitErr.ExitCode()}
	}

	return fmt.Errorf("run payload locally: %w", runErr)
}

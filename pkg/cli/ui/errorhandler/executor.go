// Package errorhandler coordinates Cobra execution and error presentation.
package errorhandler

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"
)

// Executor runs a Cobra command while intercepting its error stream so the
// caller can present one normalized message instead of Cobra's raw output.
type Executor struct {
	normalizer DefaultNormalizer
}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{normalizer: DefaultNormalizer{}}
}

// Execute runs the provided command. It returns nil on success, or a
// *CommandError containing both the normalized message and the original
// error to preserve error-chain semantics.
func (e *Executor) Execute(cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.Execute()
	if err == nil {
		return nil
	}

	return &CommandError{
		message: e.normalizer.Normalize(errBuf.String()),
		cause:   err,
	}
}

// CommandError represents a Cobra execution failure augmented with normalized
// stderr output.
type CommandError struct {
	message string
	cause   error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the underlying cause for errors.Is/errors.As consumers.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// DefaultNormalizer trims Cobra's stderr output into a single clean message.
type DefaultNormalizer struct{}

// Normalize trims whitespace, removes redundant "Error:" prefixes, and
// preserves multi-line usage hints.
func (DefaultNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}

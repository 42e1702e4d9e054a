// Package cli provides reusable helpers for command wiring and execution.
//
// This package is organized into subpackages for different functionality:
//
//   - cli/cmd: Cobra command tree for dispatching and running provisioning roles
//   - cli/flags: Flag handling utilities shared across commands
//   - cli/parallel: Parallel task execution with controlled concurrency
//   - cli/runner: Command runner utilities for executing commands with output capture
//   - cli/ui: User interface components (errorhandler)
//
// The utilities in this package follow dependency injection patterns and integrate
// with the shipmate runtime container for testability and flexibility.
package cli

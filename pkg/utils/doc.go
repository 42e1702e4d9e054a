// Package utils provides utility packages for common operations.
//
// This package contains subpackages with utility functions used across
// the shipmate codebase:
//
//   - utils/notify: User-facing status messages with consistent styling
//   - utils/timer: Duration tracking for multi-stage command runs
package utils

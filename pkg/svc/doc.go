// Package svc provides service layer components for shipmate.
//
// This package contains the business logic layer that coordinates between
// the CLI commands and the underlying transports.
//
// Subpackages:
//   - bundler: Self-contained provisioning payload assembly
//   - dispatcher: Cluster-wide role dispatch with per-host outcome tracking
//   - roles: Role registry and the shell function library shipped to hosts
//   - transport: Session transports for local, SSH, and containerized execution
package svc

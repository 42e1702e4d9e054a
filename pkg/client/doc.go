// Package client provides embedded clients for external daemons.
//
// Subpackages:
//   - client/docker: Docker API client construction from the environment
package client

// Package transport executes payloads on target machines.
//
// A Session runs exactly one payload to completion and reports its exit
// status. The SSH implementation streams the payload over a remote shell's
// stdin; the local implementation pipes it into a local interpreter and
// exists so the build pipeline can reuse the same contract without a network
// channel.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// Error definitions for transport operations.
var (
	// ErrMissingHost is returned when a target has no host address.
	ErrMissingHost = errors.New("transport target has no host")
)

// Options are the channel options resolved from the command line, immutable
// once resolved.
type Options struct {
	// IdentityFile is the path of the private key used to authenticate, if any.
	IdentityFile string
	// Login is the remote login name, if any. When empty the session uses the
	// current user's name.
	Login string
	// Sudo wraps the remote command in an elevated-privilege prefix.
	Sudo bool
}

// Target identifies one machine a payload should run on.
type Target struct {
	Host    string
	Options Options
}

// Address renders the target as login@host, or the bare host when no login
// is set.
func (t Target) Address() string {
	if t.Options.Login == "" {
		return t.Host
	}

	return t.Options.Login + "@" + t.Host
}

// Session executes one payload to completion.
type Session interface {
	// Run streams the payload into the target interpreter and blocks until it
	// terminates. A nonzero exit status is reported as an *ExitError.
	Run(ctx context.Context, payload string) error
}

// Factory opens sessions for targets. The dispatcher holds a Factory so tests
// can substitute fake sessions.
type Factory interface {
	NewSession(target Target) Session
}

// ExitError reports that a payload ran to completion with a nonzero exit
// status.
type ExitError struct {
	Status int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("payload exited with status %d", e.Status)
}

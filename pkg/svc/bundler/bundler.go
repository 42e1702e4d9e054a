// Package bundler assembles self-contained shell payloads for remote
// execution.
//
// A payload carries everything a target machine needs beyond a POSIX-capable
// interpreter: the complete role step library, a strict-mode directive, a
// call that rebuilds the control host's configuration, and the escaped
// invocation of one role. Executing the payload remotely is behaviorally
// equivalent to invoking the same role locally, modulo working directory and
// environment.
package bundler

import (
	"fmt"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/devantler-tech/shipmate/pkg/config"
	"github.com/devantler-tech/shipmate/pkg/svc/roles"
)

// strictMode aborts the remote script on any command error, any reference to
// an unset variable, and any failure inside a pipeline.
const strictMode = "set -euo pipefail"

// Bundle is one unit of work for a single machine. It is built fresh per
// dispatch and consumed immediately by a transport session.
type Bundle struct {
	// Library is the full role step library. The whole toolkit ships with
	// every bundle so transitively called helpers always resolve.
	Library string
	// Role is the registered role the payload invokes.
	Role roles.Name
	// Args are the role arguments, in order.
	Args []string
}

// Payload renders the executable script: library, strict-mode directive,
// configuration re-initialization, then the escaped role invocation.
// Function definitions precede strict mode, and the configuration must exist
// before the role runs.
func (b Bundle) Payload() string {
	var script strings.Builder

	script.WriteString(b.Library)
	script.WriteString("\n")
	script.WriteString(strictMode)
	script.WriteString("\n\nshipmate_init_config\n")
	script.WriteString(string(b.Role))

	for _, arg := range b.Args {
		script.WriteString(" ")
		script.WriteString(shellescape.Quote(arg))
	}

	script.WriteString("\n")

	return script.String()
}

// Bundler produces bundles against a role library rendered once per run.
type Bundler struct {
	library string
}

// New creates a Bundler with the library rendered from cfg. The library is
// rendered exactly once; per-dispatch work is limited to the invocation line.
func New(cfg config.Config) (*Bundler, error) {
	library, err := roles.Library(cfg)
	if err != nil {
		return nil, fmt.Errorf("render role library: %w", err)
	}

	return &Bundler{library: library}, nil
}

// NewWithLibrary creates a Bundler around a pre-rendered library. Intended
// for tests that substitute a minimal library.
func NewWithLibrary(library string) *Bundler {
	return &Bundler{library: library}
}

// Bundle builds the unit of work invoking role with args. Names outside the
// role registry fail with roles.ErrUnknownRole before anything is rendered.
func (b *Bundler) Bundle(role string, args ...string) (Bundle, error) {
	resolved, err := roles.Lookup(role)
	if err != nil {
		return Bundle{}, fmt.Errorf("bundle %q: %w", role, err)
	}

	return Bundle{
		Library: b.library,
		Role:    resolved.Name,
		Args:    args,
	}, nil
}

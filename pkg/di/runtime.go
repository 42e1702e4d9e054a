// Package di wires the shared runtime container used by command handlers.
//
// Dependencies are registered lazily: constructing the container never talks
// to the network or the Docker daemon. Errors surface at resolution time in
// the command that actually needs the dependency.
package di

import "github.com/samber/do/v2"

// Injector is the container handle passed around command construction.
type Injector = do.Injector

// Provider registers one dependency constructor with the injector.
type Provider func(Injector)

// Runtime is the shared dependency container for a process.
type Runtime struct {
	injector do.Injector
}

// New constructs a Runtime and applies the given providers.
func New(providers ...Provider) *Runtime {
	injector := do.New()

	for _, provide := range providers {
		provide(injector)
	}

	return &Runtime{injector: injector}
}

// Injector exposes the underlying injector for resolution and test overrides.
func (r *Runtime) Injector() Injector {
	return r.injector
}

// Package roles defines the closed registry of provisioning roles and
// renders the shell step library that implements them on target machines.
//
// A role is a fixed, ordered list of shell steps executed once on a machine.
// The registry is deliberately closed: only the names listed here can be
// bundled or invoked, and anything else resolves to ErrUnknownRole. There is
// no lookup of arbitrary routine names.
package roles

import (
	"errors"
	"fmt"
)

// Name identifies a provisioning role.
type Name string

// The full set of provisioning roles.
const (
	// Master provisions a scheduler machine. It receives the ordered list of
	// all master internal addresses and consumes the first one as the
	// scheduler address.
	Master Name = "master"
	// Slave provisions a worker machine. It takes no arguments.
	Slave Name = "slave"
	// Build produces the versioned runtime artifact on the control host.
	Build Name = "build"
)

// ErrUnknownRole is returned when a name outside the registry is looked up.
var ErrUnknownRole = errors.New("unknown role")

// Role describes a registered provisioning role.
type Role struct {
	Name    Name
	Summary string
}

//nolint:gochecknoglobals // The registry is the package's reason to exist.
var registry = map[Name]Role{
	Master: {
		Name:    Master,
		Summary: "install the runtime and start the scheduler daemon",
	},
	Slave: {
		Name:    Slave,
		Summary: "install the runtime and start the worker daemon",
	},
	Build: {
		Name:    Build,
		Summary: "compile and package the versioned runtime artifact",
	},
}

// Lookup resolves a role by name. Unregistered names fail with ErrUnknownRole.
func Lookup(name string) (Role, error) {
	role, ok := registry[Name(name)]
	if !ok {
		return Role{}, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}

	return role, nil
}

// Names returns the registered role names in a fixed order.
func Names() []Name {
	return []Name{Master, Slave, Build}
}

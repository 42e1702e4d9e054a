// Package flags defines the transport-related command line flags and their
// resolution into channel options.
//
// Flag parsing is strict by construction: pflag rejects unknown "--" flags
// and flags missing their value before any dispatch work begins.
package flags

import (
	"fmt"

	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/spf13/pflag"
)

// Transport flag names.
const (
	// SSHKeyFlagName supplies the identity file used to authenticate.
	SSHKeyFlagName = "ssh-key"
	// SSHUserFlagName supplies the remote login name.
	SSHUserFlagName = "ssh-user"
	// SudoFlagName elevates the remote command on target machines.
	SudoFlagName = "sudo"
)

// AddTransportFlags registers the transport flags on the given flag set.
func AddTransportFlags(flagSet *pflag.FlagSet) {
	flagSet.String(
		SSHKeyFlagName,
		"",
		"Path of the SSH identity file used to authenticate against target machines",
	)
	flagSet.String(
		SSHUserFlagName,
		"",
		"Login name on target machines (defaults to the current user)",
	)
	flagSet.Bool(
		SudoFlagName,
		false,
		"Run payloads through sudo on target machines",
	)
}

// ResolveTransportOptions reads the transport flags into an immutable
// options value.
func ResolveTransportOptions(flagSet *pflag.FlagSet) (transport.Options, error) {
	identityFile, err := flagSet.GetString(SSHKeyFlagName)
	if err != nil {
		return transport.Options{}, fmt.Errorf("resolve %s flag: %w", SSHKeyFlagName, err)
	}

	login, err := flagSet.GetString(SSHUserFlagName)
	if err != nil {
		return transport.Options{}, fmt.Errorf("resolve %s flag: %w", SSHUserFlagName, err)
	}

	sudo, err := flagSet.GetBool(SudoFlagName)
	if err != nil {
		return transport.Options{}, fmt.Errorf("resolve %s flag: %w", SudoFlagName, err)
	}

	return transport.Options{
		IdentityFile: identityFile,
		Login:        login,
		Sudo:         sudo,
	}, nil
}

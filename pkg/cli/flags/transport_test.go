package flags_test

import (
	"testing"

	"github.com/devantler-tech/shipmate/pkg/cli/flags"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.AddTransportFlags(flagSet)

	return flagSet
}

func TestResolveTransportOptions_Defaults(t *testing.T) {
	t.Parallel()

	flagSet := newFlagSet()
	require.NoError(t, flagSet.Parse(nil))

	options, err := flags.ResolveTransportOptions(flagSet)
	require.NoError(t, err)
	require.Equal(t, transport.Options{}, options)
}

func TestResolveTransportOptions_AllFlagsSet(t *testing.T) {
	t.Parallel()

	flagSet := newFlagSet()
	require.NoError(t, flagSet.Parse([]string{
		"--ssh-key", "/home/deploy/.ssh/id_ed25519",
		"--ssh-user", "deploy",
		"--sudo",
	}))

	options, err := flags.ResolveTransportOptions(flagSet)
	require.NoError(t, err)
	require.Equal(t, transport.Options{
		IdentityFile: "/home/deploy/.ssh/id_ed25519",
		Login:        "deploy",
		Sudo:         true,
	}, options)
}

func TestParse_UnknownFlagFails(t *testing.T) {
	t.Parallel()

	flagSet := newFlagSet()

	err := flagSet.Parse([]string{"--bogus"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown flag")
}

func TestParse_MissingFlagValueFails(t *testing.T) {
	t.Parallel()

	flagSet := newFlagSet()

	// A value flag as the final token is a hard parse error, not silence.
	err := flagSet.Parse([]string{"--ssh-key"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "needs an argument")
}

package transport_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/devantler-tech/shipmate/pkg/svc/bundler"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/stretchr/testify/require"
)

func TestTarget_Address(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target transport.Target
		want   string
	}{
		{
			name:   "bare host without login",
			target: transport.Target{Host: "54.168.1.11"},
			want:   "54.168.1.11",
		},
		{
			name: "login prefixed host",
			target: transport.Target{
				Host:    "54.168.1.11",
				Options: transport.Options{Login: "ubuntu"},
			},
			want: "ubuntu@54.168.1.11",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, testCase.want, testCase.target.Address())
		})
	}
}

func TestSSHSession_MissingHost(t *testing.T) {
	t.Parallel()

	factory := transport.NewSSHFactory(nil, nil)
	session := factory.NewSession(transport.Target{})

	err := session.Run(context.Background(), "true\n")
	require.ErrorIs(t, err, transport.ErrMissingHost)
}

func TestLocalSession_SuccessAndOutput(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	session := transport.NewLocalSession(&stdout, &stderr)

	err := session.Run(context.Background(), "printf 'hello from payload'\n")
	require.NoError(t, err)
	require.Equal(t, "hello from payload", stdout.String())
	require.Empty(t, stderr.String())
}

func TestLocalSession_NonzeroExitIsExitError(t *testing.T) {
	t.Parallel()

	session := transport.NewLocalSession(&bytes.Buffer{}, &bytes.Buffer{})

	err := session.Run(context.Background(), "exit 3\n")

	var exitErr *transport.ExitError

	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.Status)
}

func TestLocalSession_StrictModeAbortsOnUnsetVariable(t *testing.T) {
	t.Parallel()

	session := transport.NewLocalSession(&bytes.Buffer{}, &bytes.Buffer{})

	err := session.Run(context.Background(), "set -euo pipefail\necho \"${missing_variable}\"\n")

	var exitErr *transport.ExitError

	require.ErrorAs(t, err, &exitErr)
}

// Executing a bundled role through a session behaves like calling the role
// function directly in the same interpreter.
func TestLocalSession_BundledRoleMatchesDirectInvocation(t *testing.T) {
	t.Parallel()

	library := "shipmate_init_config() { :; }\n" +
		"slave() { printf 'provisioning %s as worker' \"$(hostname -s 2>/dev/null || echo local)\"; }\n"

	bndl := bundler.NewWithLibrary(library)

	bundle, err := bndl.Bundle("slave")
	require.NoError(t, err)

	var bundled bytes.Buffer

	err = transport.NewLocalSession(&bundled, &bytes.Buffer{}).
		Run(context.Background(), bundle.Payload())
	require.NoError(t, err)

	var direct bytes.Buffer

	err = transport.NewLocalSession(&direct, &bytes.Buffer{}).
		Run(context.Background(), library+"slave\n")
	require.NoError(t, err)

	require.Equal(t, direct.String(), bundled.String())
}

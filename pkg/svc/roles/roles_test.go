package roles_test

import (
	"testing"

	"github.com/devantler-tech/shipmate/pkg/config"
	"github.com/devantler-tech/shipmate/pkg/svc/roles"
	"github.com/stretchr/testify/require"
)

func TestLookup_RegisteredRoles(t *testing.T) {
	t.Parallel()

	for _, name := range roles.Names() {
		role, err := roles.Lookup(string(name))
		require.NoError(t, err)
		require.Equal(t, name, role.Name)
		require.NotEmpty(t, role.Summary)
	}
}

func TestLookup_UnknownRole(t *testing.T) {
	t.Parallel()

	_, err := roles.Lookup("reimage")
	require.ErrorIs(t, err, roles.ErrUnknownRole)
}

func TestLibrary_ContainsEveryRoleDefinition(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		ArtifactVersion: "0.7.0",
		ArtifactBaseURL: "https://artifacts.example.com",
		SourceURL:       "https://src.example.com",
		InstallDir:      "/opt/shipmate",
		LogDir:          "/var/log/shipmate",
		ClusterFile:     "/etc/shipmate/cluster.json",
	}

	library, err := roles.Library(cfg)
	require.NoError(t, err)

	// The whole toolkit ships with every payload, not just the role invoked.
	require.Contains(t, library, "master() {")
	require.Contains(t, library, "slave() {")
	require.Contains(t, library, "build() {")
	require.Contains(t, library, "shipmate_init_config() {")
}

func TestLibrary_SerializesConfiguration(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		ArtifactVersion: "1.4.2",
		ArtifactBaseURL: "https://artifacts.example.com",
		InstallDir:      "/opt dir/shipmate",
	}

	library, err := roles.Library(cfg)
	require.NoError(t, err)

	require.Contains(t, library, "SHIPMATE_ARTIFACT_VERSION=1.4.2")
	require.Contains(t, library, "shipmate-runtime-1.4.2.tar.gz")
	// Values with shell metacharacters survive one level of quoting.
	require.Contains(t, library, `SHIPMATE_INSTALL_DIR='/opt dir/shipmate'`)
}

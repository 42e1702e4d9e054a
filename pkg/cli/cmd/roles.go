package cmd

import (
	"fmt"

	runtime "github.com/devantler-tech/shipmate/pkg/di"
	"github.com/devantler-tech/shipmate/pkg/svc/roles"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/devantler-tech/shipmate/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// NewMasterCmd wires the command running the master role on the current host.
// This is also the re-entry point the remote payload uses conceptually: the
// bundled invocation performs the same steps this command performs locally.
func NewMasterCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "master <internal-address>...",
		Short:        "Run the master provisioning role on this machine",
		Long:         "Install the runtime and start the scheduler daemon on the current machine. The first internal address becomes the advertised scheduler address.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoleLocally(cmd, runtimeContainer, roles.Master, args)
		},
	}
}

// NewSlaveCmd wires the command running the slave role on the current host.
func NewSlaveCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:          "slave",
		Short:        "Run the slave provisioning role on this machine",
		Long:         "Install the runtime and start the worker daemon on the current machine.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoleLocally(cmd, runtimeContainer, roles.Slave, nil)
		},
	}
}

// runRoleLocally bundles a role exactly as a remote dispatch would and runs
// the payload through the local executor, keeping local and remote execution
// behaviorally identical.
func runRoleLocally(
	cmd *cobra.Command,
	runtimeContainer *runtime.Runtime,
	role roles.Name,
	args []string,
) error {
	injector := runtimeContainer.Injector()

	bndl, err := runtime.ResolveBundler(injector)
	if err != nil {
		return err
	}

	bundle, err := bndl.Bundle(string(role), args...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	notify.Activityf(out, "running %s role locally", role)

	session := transport.NewLocalSession(out, cmd.ErrOrStderr())

	err = session.Run(cmd.Context(), bundle.Payload())
	if err != nil {
		return fmt.Errorf("%s role: %w", role, err)
	}

	notify.Successf(out, "%s role completed", role)

	return nil
}

package cmd

import (
	"fmt"

	runtime "github.com/devantler-tech/shipmate/pkg/di"
	"github.com/devantler-tech/shipmate/pkg/svc/roles"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/devantler-tech/shipmate/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// ContainerFlagName switches the build pipeline into a Docker container.
const ContainerFlagName = "container"

// NewBuildCmd wires the command running the build pipeline on the control
// host. The pipeline is the build role payload executed through the same
// session contract as remote dispatches, with a local executor in place of
// the network channel; --container substitutes a hermetic container executor.
func NewBuildCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "build",
		Short:        "Build and package the runtime artifact on this machine",
		Long:         "Fetch the runtime source, compile it, and package the versioned artifact archive the provisioning roles download.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleBuildRunE(cmd, runtimeContainer)
		},
	}

	cmd.Flags().Bool(ContainerFlagName, false, "Run the build inside a Docker container")

	return cmd
}

func handleBuildRunE(cmd *cobra.Command, runtimeContainer *runtime.Runtime) error {
	injector := runtimeContainer.Injector()

	tmr, err := runtime.ResolveTimer(injector)
	if err != nil {
		return err
	}

	tmr.Start()

	bndl, err := runtime.ResolveBundler(injector)
	if err != nil {
		return err
	}

	bundle, err := bndl.Bundle(string(roles.Build))
	if err != nil {
		return err
	}

	session, err := buildSession(cmd, runtimeContainer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	notify.Titlef(out, "🔨", "Building runtime artifact...")

	err = session.Run(cmd.Context(), bundle.Payload())
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	notify.SuccessWithTimerf(out, tmr, "runtime artifact built")

	return nil
}

// buildSession picks the executor for the build payload: the control host's
// own interpreter, or a container when --container is set.
func buildSession(
	cmd *cobra.Command,
	runtimeContainer *runtime.Runtime,
) (transport.Session, error) {
	containerized, err := cmd.Flags().GetBool(ContainerFlagName)
	if err != nil {
		return nil, fmt.Errorf("resolve %s flag: %w", ContainerFlagName, err)
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if !containerized {
		return transport.NewLocalSession(out, errOut), nil
	}

	injector := runtimeContainer.Injector()

	apiClient, err := runtime.ResolveDockerClient(injector)
	if err != nil {
		return nil, err
	}

	cfg, err := runtime.ResolveConfig(injector)
	if err != nil {
		return nil, err
	}

	return transport.NewContainerSession(apiClient, cfg.BuildImage, out, errOut), nil
}

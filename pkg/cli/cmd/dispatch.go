package cmd

import (
	"errors"
	"fmt"

	"github.com/devantler-tech/shipmate/pkg/cli/flags"
	runtime "github.com/devantler-tech/shipmate/pkg/di"
	"github.com/devantler-tech/shipmate/pkg/svc/dispatcher"
	"github.com/devantler-tech/shipmate/pkg/topology"
	"github.com/devantler-tech/shipmate/pkg/utils/notify"
	"github.com/spf13/cobra"
)

// ErrProvisioningFailed is returned when at least one host in a dispatch run
// could not be provisioned. The run itself is best effort per host; this
// error only shapes the process exit code.
var ErrProvisioningFailed = errors.New("provisioning failed")

// handleDispatchRunE builds the cluster-dispatch handler: parse the topology
// from stdin, provision every machine, and fail the process when any machine
// could not be provisioned.
func handleDispatchRunE(
	runtimeContainer *runtime.Runtime,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		injector := runtimeContainer.Injector()

		tmr, err := runtime.ResolveTimer(injector)
		if err != nil {
			return err
		}

		tmr.Start()

		options, err := flags.ResolveTransportOptions(cmd.Flags())
		if err != nil {
			return err
		}

		concurrency, err := cmd.Flags().GetInt64(ConcurrencyFlagName)
		if err != nil {
			return fmt.Errorf("resolve %s flag: %w", ConcurrencyFlagName, err)
		}

		bndl, err := runtime.ResolveBundler(injector)
		if err != nil {
			return err
		}

		factory, err := runtime.ResolveTransportFactory(injector)
		if err != nil {
			return err
		}

		topo, err := topology.Parse(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("parse topology: %w", err)
		}

		out := cmd.OutOrStdout()

		if topo.HostCount() == 0 {
			notify.Warningf(out, "topology is empty; nothing to provision")

			return nil
		}

		notify.Titlef(out, "🚀", "Provisioning %d machines (%d slaves, %d masters)...",
			topo.HostCount(), len(topo.Slaves), len(topo.Masters))

		disp, err := dispatcher.New(dispatcher.Config{
			Topology:    topo,
			Options:     options,
			Bundler:     bndl,
			Factory:     factory,
			Writer:      out,
			Concurrency: concurrency,
		})
		if err != nil {
			return err
		}

		results, err := disp.Run(cmd.Context())
		if err != nil {
			return err
		}

		failed := dispatcher.Failed(results)
		if len(failed) > 0 {
			return fmt.Errorf("%w on %d of %d hosts", ErrProvisioningFailed, len(failed), len(results))
		}

		notify.SuccessWithTimerf(out, tmr, "provisioned %d machines", len(results))

		return nil
	}
}

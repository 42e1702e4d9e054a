// Package cmd assembles the shipmate command tree.
package cmd

import (
	"fmt"

	"github.com/devantler-tech/shipmate/pkg/cli/flags"
	"github.com/devantler-tech/shipmate/pkg/cli/ui/errorhandler"
	runtime "github.com/devantler-tech/shipmate/pkg/di"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Flag names owned by the root command.
const (
	// ConcurrencyFlagName bounds simultaneously open host sessions.
	ConcurrencyFlagName = "concurrency"
	// VerboseFlagName enables debug logging.
	VerboseFlagName = "verbose"
)

// NewRootCmd creates and returns the root command with version info and subcommands.
//
// The bare invocation is cluster-dispatch mode: the topology is read from
// stdin and every machine in it is provisioned over SSH. The subcommands run
// single roles on the current host; anything else is rejected by Cobra as an
// unknown command.
func NewRootCmd(version, commit, date string) *cobra.Command {
	return NewRootCmdWithRuntime(version, commit, date, runtime.NewRuntime())
}

// NewRootCmdWithRuntime creates the root command against a caller-supplied
// runtime container. Tests use it to override dependencies.
func NewRootCmdWithRuntime(
	version, commit, date string,
	runtimeContainer *runtime.Runtime,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipmate",
		Short: "Shipmate bootstraps a scheduler/worker cluster from a single control host",
		Long: "Shipmate reads a cluster topology from stdin and provisions every machine " +
			"in it by shipping a self-contained payload over SSH: workers first, then " +
			"masters, each in input order.",
		Args:             cobra.NoArgs,
		RunE:             handleDispatchRunE(runtimeContainer),
		PersistentPreRun: configureLogging,
		SilenceUsage:     true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().Bool(VerboseFlagName, false, "Enable debug logging")

	flags.AddTransportFlags(cmd.Flags())
	cmd.Flags().Int64(
		ConcurrencyFlagName,
		1,
		"Maximum simultaneously provisioned machines (1 preserves exact input order)",
	)

	cmd.AddCommand(NewMasterCmd(runtimeContainer))
	cmd.AddCommand(NewSlaveCmd(runtimeContainer))
	cmd.AddCommand(NewBuildCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and handles errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// configureLogging raises the log level when --verbose is set.
func configureLogging(cmd *cobra.Command, _ []string) {
	verbose, err := cmd.Flags().GetBool(VerboseFlagName)
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Package dispatcher orchestrates per-host provisioning sessions across a
// whole topology.
//
// Hosts are visited slaves first, then masters, each in input order. Every
// dispatch is independent: a failing host is recorded and logged, and the
// loop moves on to the next host. Nothing is retried and nothing is rolled
// back.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/devantler-tech/shipmate/pkg/cli/parallel"
	"github.com/devantler-tech/shipmate/pkg/svc/bundler"
	"github.com/devantler-tech/shipmate/pkg/svc/roles"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/devantler-tech/shipmate/pkg/topology"
	"github.com/devantler-tech/shipmate/pkg/utils/notify"
	"github.com/sirupsen/logrus"
)

// Error definitions for dispatcher construction.
var (
	// ErrNilTopology is returned when no topology is supplied.
	ErrNilTopology = errors.New("dispatcher requires a topology")
	// ErrNilBundler is returned when no bundler is supplied.
	ErrNilBundler = errors.New("dispatcher requires a bundler")
	// ErrNilFactory is returned when no transport factory is supplied.
	ErrNilFactory = errors.New("dispatcher requires a transport factory")
)

// HostResult records the outcome of one dispatch. Err is nil on success; a
// *transport.ExitError marks a handler failure on the target, any other
// error a channel failure. The two are deliberately indistinguishable to the
// caller: both simply mean the host was not provisioned.
type HostResult struct {
	Host string
	Role roles.Name
	Err  error
}

// Succeeded reports whether the host was provisioned.
func (r HostResult) Succeeded() bool {
	return r.Err == nil
}

// Config configures a Dispatcher.
type Config struct {
	Topology *topology.Topology
	Options  transport.Options
	Bundler  *bundler.Bundler
	Factory  transport.Factory
	// Writer receives user-facing per-host status output. Defaults to os.Stdout.
	Writer io.Writer
	// Concurrency bounds the number of simultaneously open sessions. Values
	// <= 1 dispatch strictly sequentially, which is the only mode that
	// guarantees exact input-order visiting. Higher values relax ordering
	// within each phase; slaves still all finish before any master starts.
	Concurrency int64
}

// Dispatcher drives one provisioning run over a topology.
type Dispatcher struct {
	config Config
}

// New creates a Dispatcher.
func New(config Config) (*Dispatcher, error) {
	if config.Topology == nil {
		return nil, ErrNilTopology
	}

	if config.Bundler == nil {
		return nil, ErrNilBundler
	}

	if config.Factory == nil {
		return nil, ErrNilFactory
	}

	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	return &Dispatcher{config: config}, nil
}

// dispatch is one planned host visit.
type dispatch struct {
	host string
	role roles.Name
	args []string
}

// Run visits every host in the topology and returns one result per host. The
// returned error covers run-level failures (a bundle that cannot be built, a
// cancelled context); per-host failures live in the results and never abort
// the run.
func (d *Dispatcher) Run(ctx context.Context) ([]HostResult, error) {
	plan := d.plan()

	logrus.WithFields(logrus.Fields{
		"slaves":  len(d.config.Topology.Slaves),
		"masters": len(d.config.Topology.Masters),
	}).Debug("starting dispatch run")

	if d.config.Concurrency <= 1 {
		return d.runSequential(ctx, plan)
	}

	return d.runBounded(ctx, plan)
}

// plan lays out the visiting order: all slaves in input order, then all
// masters in input order. Every master receives the complete ordered list of
// master internal addresses; the master handler consumes the first entry, so
// single-master topologies are the only fully supported layout. That is a
// documented limitation of the handler contract, not of the plan.
func (d *Dispatcher) plan() []dispatch {
	topo := d.config.Topology
	plan := make([]dispatch, 0, topo.HostCount())

	for _, slave := range topo.Slaves {
		plan = append(plan, dispatch{host: slave, role: roles.Slave})
	}

	internalAddresses := topo.InternalAddresses()
	for _, master := range topo.Masters {
		plan = append(plan, dispatch{
			host: master.External,
			role: roles.Master,
			args: internalAddresses,
		})
	}

	return plan
}

func (d *Dispatcher) runSequential(ctx context.Context, plan []dispatch) ([]HostResult, error) {
	results := make([]HostResult, 0, len(plan))

	for _, visit := range plan {
		result, err := d.visit(ctx, visit, d.config.Writer)
		if err != nil {
			return results, err
		}

		results = append(results, result)
	}

	return results, nil
}

func (d *Dispatcher) runBounded(ctx context.Context, plan []dispatch) ([]HostResult, error) {
	executor := parallel.NewExecutor(d.config.Concurrency)
	writer := parallel.NewSyncWriter(d.config.Writer)
	collected := parallel.NewResults[HostResult]()

	// Two phases: all slave dispatches complete before any master dispatch
	// starts, preserving the cross-phase ordering guarantee under concurrency.
	for _, phase := range [][]dispatch{
		filterByRole(plan, roles.Slave),
		filterByRole(plan, roles.Master),
	} {
		tasks := make([]parallel.Task, 0, len(phase))

		for _, visit := range phase {
			tasks = append(tasks, func(taskCtx context.Context) error {
				result, err := d.visit(taskCtx, visit, writer)
				if err != nil {
					return err
				}

				collected.Add(result)

				return nil
			})
		}

		err := executor.Execute(ctx, tasks...)
		if err != nil {
			return collected.Values(), fmt.Errorf("dispatch phase: %w", err)
		}
	}

	return collected.Values(), nil
}

// visit provisions one host. The returned error is run-fatal; per-host
// failures are folded into the HostResult instead.
func (d *Dispatcher) visit(
	ctx context.Context,
	visit dispatch,
	writer io.Writer,
) (HostResult, error) {
	bundle, err := d.config.Bundler.Bundle(string(visit.role), visit.args...)
	if err != nil {
		return HostResult{}, fmt.Errorf("bundle for %s: %w", visit.host, err)
	}

	notify.Activityf(writer, "provisioning %s as %s", visit.host, visit.role)

	target := transport.Target{Host: visit.host, Options: d.config.Options}
	session := d.config.Factory.NewSession(target)

	runErr := session.Run(ctx, bundle.Payload())
	if runErr != nil && ctx.Err() != nil {
		// A cancelled run is not a per-host outcome; stop the whole loop.
		return HostResult{}, fmt.Errorf("dispatch to %s: %w", visit.host, runErr)
	}

	result := HostResult{Host: visit.host, Role: visit.role, Err: runErr}

	if result.Succeeded() {
		notify.Successf(writer, "%s provisioned as %s", visit.host, visit.role)
	} else {
		notify.Errorf(writer, "%s failed: %v", visit.host, runErr)
	}

	return result, nil
}

func filterByRole(plan []dispatch, role roles.Name) []dispatch {
	filtered := make([]dispatch, 0, len(plan))

	for _, visit := range plan {
		if visit.role == role {
			filtered = append(filtered, visit)
		}
	}

	return filtered
}

// Failed returns the subset of results whose dispatch did not succeed.
func Failed(results []HostResult) []HostResult {
	failed := make([]HostResult, 0, len(results))

	for _, result := range results {
		if !result.Succeeded() {
			failed = append(failed, result)
		}
	}

	return failed
}

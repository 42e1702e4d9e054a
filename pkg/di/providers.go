package di

import (
	dockerengine "github.com/devantler-tech/shipmate/pkg/client/docker"
	"github.com/devantler-tech/shipmate/pkg/config"
	"github.com/devantler-tech/shipmate/pkg/svc/bundler"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/devantler-tech/shipmate/pkg/utils/timer"
	"github.com/docker/docker/client"
	"github.com/samber/do/v2"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by the root command
// and tests. It registers default implementations for every dependency the
// command handlers resolve.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideConfig,
		provideBundler,
		provideTransportFactory,
		provideDockerClient,
	)
}

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})
}

// provideConfig registers the immutable process configuration. It is loaded
// once on first resolution and shared by every consumer afterwards.
func provideConfig(i Injector) {
	do.Provide(i, func(Injector) (config.Config, error) {
		return config.Load()
	})
}

// provideBundler registers the session bundler, built against the resolved
// configuration.
func provideBundler(i Injector) {
	do.Provide(i, func(injector Injector) (*bundler.Bundler, error) {
		cfg, err := do.Invoke[config.Config](injector)
		if err != nil {
			return nil, err
		}

		return bundler.New(cfg)
	})
}

// provideTransportFactory registers the SSH transport factory. Tests override
// this registration with a fake factory.
func provideTransportFactory(i Injector) {
	do.Provide(i, func(Injector) (transport.Factory, error) {
		return transport.NewSSHFactory(nil, nil), nil
	})
}

// provideDockerClient registers the Docker API client used by the
// containerized build pipeline. The daemon is only contacted when a command
// resolves the client.
func provideDockerClient(i Injector) {
	do.Provide(i, func(Injector) (client.APIClient, error) {
		return dockerengine.GetDockerClient()
	})
}

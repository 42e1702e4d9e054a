package di

import (
	"fmt"

	"github.com/devantler-tech/shipmate/pkg/config"
	"github.com/devantler-tech/shipmate/pkg/svc/bundler"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
	"github.com/devantler-tech/shipmate/pkg/utils/timer"
	"github.com/docker/docker/client"
	"github.com/samber/do/v2"
)

// Dependency resolvers.

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveConfig retrieves the immutable process configuration.
func ResolveConfig(injector Injector) (config.Config, error) {
	cfg, err := do.Invoke[config.Config](injector)
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve configuration dependency: %w", err)
	}

	return cfg, nil
}

// ResolveBundler retrieves the session bundler.
func ResolveBundler(injector Injector) (*bundler.Bundler, error) {
	bndl, err := do.Invoke[*bundler.Bundler](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve bundler dependency: %w", err)
	}

	return bndl, nil
}

// ResolveTransportFactory retrieves the transport factory.
func ResolveTransportFactory(injector Injector) (transport.Factory, error) {
	factory, err := do.Invoke[transport.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve transport factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveDockerClient retrieves the Docker API client.
func ResolveDockerClient(injector Injector) (client.APIClient, error) {
	apiClient, err := do.Invoke[client.APIClient](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve docker client dependency: %w", err)
	}

	return apiClient, nil
}

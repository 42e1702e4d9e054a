package di_test

import (
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/require"

	"github.com/devantler-tech/shipmate/pkg/di"
	"github.com/devantler-tech/shipmate/pkg/svc/transport"
)

func TestResolveTimer(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	tmr, err := di.ResolveTimer(runtime.Injector())

	require.NoError(t, err)
	require.NotNil(t, tmr)
}

func TestResolveTimer_MissingRegistration(t *testing.T) {
	t.Parallel()

	runtime := di.New()

	_, err := di.ResolveTimer(runtime.Injector())

	require.Error(t, err)
	require.ErrorContains(t, err, "resolve timer dependency")
}

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	cfg, err := di.ResolveConfig(runtime.Injector())

	require.NoError(t, err)
	require.NotEmpty(t, cfg.ArtifactVersion)
}

func TestResolveBundler(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	bndl, err := di.ResolveBundler(runtime.Injector())

	require.NoError(t, err)
	require.NotNil(t, bndl)
}

func TestResolveTransportFactory(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	factory, err := di.ResolveTransportFactory(runtime.Injector())

	require.NoError(t, err)
	require.NotNil(t, factory)
}

func TestResolveTransportFactory_Override(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	override := transport.NewSSHFactory(nil, nil)
	do.Override(runtime.Injector(), func(di.Injector) (transport.Factory, error) {
		return override, nil
	})

	factory, err := di.ResolveTransportFactory(runtime.Injector())

	require.NoError(t, err)
	require.Same(t, override, factory)
}

func TestRuntime_SharesSingletons(t *testing.T) {
	t.Parallel()

	runtime := di.NewRuntime()

	first, err := di.ResolveTimer(runtime.Injector())
	require.NoError(t, err)

	second, err := di.ResolveTimer(runtime.Injector())
	require.NoError(t, err)

	require.Same(t, first, second)
}

package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/inject"
	"github.com/skekre98/wirebox/metrics"
)

func TestResolveMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	c := core.NewContainer(core.WithName("root"), core.WithObserver(m))
	core.Register(c, func() string { return "x" })

	_, _ = core.Resolve[string](c)
	_, _ = core.Resolve[string](c)
	_, _ = core.Resolve[int](c)
	_, _ = core.ResolveWithParameter[string](c, 1)

	count, err := testutil.GatherAndCount(reg, "wirebox_container_resolves_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "one series per label set")

	hits := `
# HELP wirebox_container_resolves_total Resolve calls by container, key, slot and outcome.
# TYPE wirebox_container_resolves_total counter
wirebox_container_resolves_total{container="root",key="int",outcome="miss",slot="plain"} 1
wirebox_container_resolves_total{container="root",key="string",outcome="hit",slot="plain"} 2
wirebox_container_resolves_total{container="root",key="string",outcome="miss",slot="parameterized"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(hits), "wirebox_container_resolves_total"))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = metrics.New(reg)
	assert.Error(t, err)
}

func TestResolveMetrics_GeneratedAlternativesShareSeries(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	c := core.NewContainer(core.WithName("root"), core.WithObserver(m))
	for i := 0; i < 5; i++ {
		alt := core.NewAlternative()
		core.Register(c, func() int { return i }, alt)
		_, _ = core.Resolve[int](c, alt)
	}

	want := `
# HELP wirebox_container_resolves_total Resolve calls by container, key, slot and outcome.
# TYPE wirebox_container_resolves_total counter
wirebox_container_resolves_total{container="root",key="int[generated]",outcome="hit",slot="plain"} 5
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "wirebox_container_resolves_total"))
}

func TestResolveMetrics_InjectionPointOnPlainResolver(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	c := core.NewContainer(core.WithName("root"), core.WithObserver(m))
	core.Register(c, func() string { return "x" })

	point := inject.Lazily[string](inject.WithContainer(c))
	assert.Equal(t, "x", point.Get(nil))

	want := `
# HELP wirebox_container_resolves_total Resolve calls by container, key, slot and outcome.
# TYPE wirebox_container_resolves_total counter
wirebox_container_resolves_total{container="root",key="string",outcome="hit",slot="plain"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "wirebox_container_resolves_total"))
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMustRegisterRegistersEverySeries(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { m.MustRegister(reg) })

	// A label vector only shows up in Gather once it has a child series.
	m.QueueDepth.WithLabelValues("chain-a")
	m.EffectsInFlight.WithLabelValues("chain-a")
	m.ParkedAggregates.WithLabelValues("chain-a")
	m.ReductionsTotal.WithLabelValues("chain-a", "ok")
	m.DeadLettersTotal.WithLabelValues("chain-a", "fatal")
	m.RetriesTotal.WithLabelValues("chain-a")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, mfs, 6)
}

func TestMustRegisterPanicsOnDuplicateRegistration(t *testing.T) {
	m := New()
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	m2 := New()
	require.Panics(t, func() { m2.MustRegister(reg) })
}

func TestCountersAccumulatePerLabel(t *testing.T) {
	m := New()
	m.DeadLettersTotal.WithLabelValues("chain-a", "fatal").Inc()
	m.DeadLettersTotal.WithLabelValues("chain-a", "fatal").Inc()
	m.DeadLettersTotal.WithLabelValues("chain-b", "reset").Inc()

	require.Equal(t, float64(2), testutil.ToFloat64(m.DeadLettersTotal.WithLabelValues("chain-a", "fatal")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.DeadLettersTotal.WithLabelValues("chain-b", "reset")))
}

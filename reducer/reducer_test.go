package reducer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ibc-relay/voyager/queue"
)

type stubReducer struct{ name string }

func (s stubReducer) ChainFamily() string { return s.name }

func (s stubReducer) DoFetch(context.Context, queue.Fetch) (queue.Item, []queue.Data, error) {
	return nil, nil, nil
}
func (s stubReducer) DoWait(context.Context, queue.Wait) (queue.Item, error) { return nil, nil }
func (s stubReducer) DoEffect(context.Context, queue.Effect) (queue.Item, []queue.Data, error) {
	return nil, nil, nil
}
func (s stubReducer) DoAggregate(context.Context, queue.Aggregation, []queue.Data) (queue.Item, error) {
	return nil, nil
}
func (s stubReducer) LowerEvent(context.Context, queue.Event) (queue.Item, error) { return nil, nil }
func (s stubReducer) LowerCommand(context.Context, queue.Command) (queue.Item, error) {
	return nil, nil
}

func TestRegistryLookupMiss(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.Lookup("chain-a")
	require.False(t, ok)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	red := stubReducer{name: "rollup-a"}
	reg.Register("chain-a", red)

	got, ok := reg.Lookup("chain-a")
	require.True(t, ok)
	require.Equal(t, red, got)

	_, ok = reg.Lookup("chain-b")
	require.False(t, ok)
}

func TestRegistryRegisterReplacesExisting(t *testing.T) {
	reg := NewRegistry()
	reg.Register("chain-a", stubReducer{name: "first"})
	reg.Register("chain-a", stubReducer{name: "second"})

	got, ok := reg.Lookup("chain-a")
	require.True(t, ok)
	require.Equal(t, stubReducer{name: "second"}, got)
}

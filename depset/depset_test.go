package depset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opstack-labs/superfault/eth"
)

func testDependencySet(t *testing.T, expiry uint64) *StaticConfigDependencySet {
	deps := map[eth.ChainID]*StaticConfigDependency{
		eth.ChainIDFromUInt64(902): {},
		eth.ChainIDFromUInt64(901): {},
		eth.ChainIDFromUInt64(900): {},
	}
	var ds *StaticConfigDependencySet
	var err error
	if expiry > 0 {
		ds, err = NewStaticConfigDependencySetWithMessageExpiryOverride(deps, expiry)
	} else {
		ds, err = NewStaticConfigDependencySet(deps)
	}
	require.NoError(t, err)
	return ds
}

func TestStaticConfigDependencySet_ChainsSorted(t *testing.T) {
	ds := testDependencySet(t, 0)
	require.Equal(t, []eth.ChainID{
		eth.ChainIDFromUInt64(900),
		eth.ChainIDFromUInt64(901),
		eth.ChainIDFromUInt64(902),
	}, ds.Chains())
	require.True(t, ds.HasChain(eth.ChainIDFromUInt64(901)))
	require.False(t, ds.HasChain(eth.ChainIDFromUInt64(999)))
}

func TestStaticConfigDependencySet_ExpiryWindow(t *testing.T) {
	require.EqualValues(t, DefaultMessageExpiryWindow, testDependencySet(t, 0).MessageExpiryWindow())
	require.EqualValues(t, 300, testDependencySet(t, 300).MessageExpiryWindow())
}

func TestStaticConfigDependencySet_JSONRoundTrip(t *testing.T) {
	ds := testDependencySet(t, 300)
	data, err := json.Marshal(ds)
	require.NoError(t, err)

	var restored StaticConfigDependencySet
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, ds.Chains(), restored.Chains())
	require.Equal(t, ds.MessageExpiryWindow(), restored.MessageExpiryWindow())
}

func TestStaticConfigDependencySet_TOMLRoundTrip(t *testing.T) {
	ds := testDependencySet(t, 300)
	data, err := ds.MarshalTOML()
	require.NoError(t, err)

	var restored StaticConfigDependencySet
	require.NoError(t, restored.UnmarshalTOML(data))
	require.Equal(t, ds.Chains(), restored.Chains())
	require.Equal(t, ds.MessageExpiryWindow(), restored.MessageExpiryWindow())
}

func TestStaticConfigDependencySet_RejectsInvalidChainID(t *testing.T) {
	var ds StaticConfigDependencySet
	err := json.Unmarshal([]byte(`{"dependencies": {"not-a-number": {}}}`), &ds)
	require.Error(t, err)
}

func TestLinkChecker(t *testing.T) {
	chainA := eth.ChainIDFromUInt64(900)
	chainB := eth.ChainIDFromUInt64(901)
	unknown := eth.ChainIDFromUInt64(999)
	linker := LinkerFromConfig(testDependencySet(t, 100))

	t.Run("WithinWindow", func(t *testing.T) {
		require.True(t, linker.CanExecute(chainB, 1000, chainA, 1000))
		require.True(t, linker.CanExecute(chainB, 1000, chainA, 900))
	})
	t.Run("Expired", func(t *testing.T) {
		require.False(t, linker.CanExecute(chainB, 1000, chainA, 899))
	})
	t.Run("InitiatingInFuture", func(t *testing.T) {
		require.False(t, linker.CanExecute(chainB, 1000, chainA, 1001))
	})
	t.Run("UnknownChains", func(t *testing.T) {
		require.False(t, linker.CanExecute(unknown, 1000, chainA, 1000))
		require.False(t, linker.CanExecute(chainB, 1000, unknown, 1000))
	})
}

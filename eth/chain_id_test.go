package eth

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

func TestChainIDOrdering(t *testing.T) {
	a := ChainIDFromUInt64(1)
	b := ChainIDFromUInt64(902)
	require.Negative(t, a.Cmp(b))
	require.Positive(t, b.Cmp(a))
	require.Zero(t, a.Cmp(ChainIDFromUInt64(1)))
}

func TestChainIDStringRoundTrip(t *testing.T) {
	id := ChainIDFromBig(new(big.Int).SetUint64(420120003))
	require.Equal(t, "420120003", id.String())
	parsed, err := ParseDecimalChainID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = ParseDecimalChainID("not-a-chain-id")
	require.Error(t, err)
}

func TestChainIDBytes32RoundTrip(t *testing.T) {
	id := ChainIDFromUInt64(0xdeadbeef)
	require.Equal(t, id, ChainIDFromBytes32(id.Bytes32()))
}

func TestChainIDRLPRoundTrip(t *testing.T) {
	type wrapper struct {
		ID ChainID
	}
	orig := wrapper{ID: ChainIDFromUInt64(902)}
	data, err := rlp.EncodeToBytes(&orig)
	require.NoError(t, err)
	var decoded wrapper
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	require.Equal(t, orig, decoded)
}

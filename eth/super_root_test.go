package eth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuperRootRoundTrip(t *testing.T) {
	super := NewSuperV1(
		8234,
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0x01}},
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(2), Output: Bytes32{0x02}},
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(901), Output: Bytes32{0x03}})

	actual, err := UnmarshalSuperRoot(super.Marshal())
	require.NoError(t, err)
	require.Equal(t, super, actual)
}

func TestNewSuperV1SortsChains(t *testing.T) {
	super := NewSuperV1(
		914,
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(901), Output: Bytes32{0x03}},
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0x01}},
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(2), Output: Bytes32{0x02}})
	require.Equal(t, ChainIDFromUInt64(1), super.Chains[0].ChainID)
	require.Equal(t, ChainIDFromUInt64(2), super.Chains[1].ChainID)
	require.Equal(t, ChainIDFromUInt64(901), super.Chains[2].ChainID)
}

func TestSuperRootHashDeterministic(t *testing.T) {
	a := NewSuperV1(100, ChainIDAndOutput{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0xaa}})
	b := NewSuperV1(100, ChainIDAndOutput{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0xaa}})
	require.Equal(t, SuperRoot(a), SuperRoot(b))

	c := NewSuperV1(101, ChainIDAndOutput{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0xaa}})
	require.NotEqual(t, SuperRoot(a), SuperRoot(c))
}

func TestUnmarshalSuperRoot_Malformed(t *testing.T) {
	valid := NewSuperV1(
		8234,
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0x01}},
		ChainIDAndOutput{ChainID: ChainIDFromUInt64(2), Output: Bytes32{0x02}}).Marshal()

	tests := []struct {
		name string
		data []byte
		err  error
	}{
		{"Empty", nil, ErrInvalidSuperRoot},
		{"UnknownVersion", append([]byte{0xfa}, valid[1:]...), ErrInvalidSuperRootVersion},
		{"NoChains", valid[:9], ErrInvalidSuperRoot},
		{"TruncatedChain", valid[:len(valid)-1], ErrInvalidSuperRoot},
		{"TrailingBytes", append(append([]byte{}, valid...), 0x01), ErrInvalidSuperRoot},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := UnmarshalSuperRoot(test.data)
			require.ErrorIs(t, err, test.err)
		})
	}
}

func TestUnmarshalSuperRoot_RejectsUnorderedChains(t *testing.T) {
	descending := &SuperV1{
		Timestamp: 8234,
		Chains: []ChainIDAndOutput{
			{ChainID: ChainIDFromUInt64(2), Output: Bytes32{0x02}},
			{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0x01}},
		},
	}
	_, err := UnmarshalSuperRoot(descending.Marshal())
	require.ErrorIs(t, err, ErrInvalidSuperRoot)

	duplicate := &SuperV1{
		Timestamp: 8234,
		Chains: []ChainIDAndOutput{
			{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0x01}},
			{ChainID: ChainIDFromUInt64(1), Output: Bytes32{0x02}},
		},
	}
	_, err = UnmarshalSuperRoot(duplicate.Marshal())
	require.ErrorIs(t, err, ErrInvalidSuperRoot)
}

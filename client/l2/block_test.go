package l2

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/opstack-labs/superfault/eth"
	"github.com/opstack-labs/superfault/supervisor"
)

func TestSealedBlockCodec(t *testing.T) {
	block := &SealedBlock{
		ParentHash:   common.Hash{0x01},
		Number:       42,
		Time:         1234,
		MessagesRoot: common.Hash{0x02},
	}
	actual, err := UnmarshalSealedBlock(block.Marshal())
	require.NoError(t, err)
	require.Equal(t, block, actual)

	_, err = UnmarshalSealedBlock([]byte("junk"))
	require.Error(t, err)

	seal := block.Seal()
	require.Equal(t, block.Hash(), seal.Hash)
	require.Equal(t, block.Number, seal.Number)
	require.Equal(t, block.Time, seal.Timestamp)
}

func TestBlockMessagesCodec(t *testing.T) {
	messages := &BlockMessages{
		Initiating: []supervisor.InitiatingMessage{
			{Origin: common.Address{0xaa}, PayloadHash: common.Hash{0x01}},
			{Origin: common.Address{0xbb}, PayloadHash: common.Hash{0x02}},
		},
		Executing: []supervisor.ExecutingMessage{
			{ChainID: eth.ChainIDFromUInt64(901), BlockNum: 7, LogIdx: 1, Timestamp: 99, Checksum: supervisor.MessageChecksum{0x03}},
		},
	}
	actual, err := UnmarshalBlockMessages(messages.Marshal())
	require.NoError(t, err)
	require.Equal(t, messages, actual)
}

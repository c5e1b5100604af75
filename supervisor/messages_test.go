package supervisor

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/opstack-labs/superfault/eth"
)

func testIdentifier() Identifier {
	return Identifier{
		Origin:      common.Address{0xaa},
		BlockNumber: 42,
		LogIndex:    3,
		Timestamp:   1234,
		ChainID:     eth.ChainIDFromUInt64(901),
	}
}

func TestChecksumDeterministic(t *testing.T) {
	payloadHash := crypto.Keccak256Hash([]byte("payload"))
	id := testIdentifier()
	require.Equal(t, id.ChecksumArgs(payloadHash).Checksum(), id.ChecksumArgs(payloadHash).Checksum())
	require.Equal(t, byte(0x03), id.ChecksumArgs(payloadHash).Checksum()[0])
}

func TestChecksumCommitsToAllFields(t *testing.T) {
	payloadHash := crypto.Keccak256Hash([]byte("payload"))
	base := testIdentifier().ChecksumArgs(payloadHash).Checksum()

	mutations := map[string]Identifier{}
	id := testIdentifier()
	id.Origin = common.Address{0xbb}
	mutations["Origin"] = id
	id = testIdentifier()
	id.BlockNumber++
	mutations["BlockNumber"] = id
	id = testIdentifier()
	id.LogIndex++
	mutations["LogIndex"] = id
	id = testIdentifier()
	id.Timestamp++
	mutations["Timestamp"] = id
	id = testIdentifier()
	id.ChainID = eth.ChainIDFromUInt64(902)
	mutations["ChainID"] = id

	for name, mutated := range mutations {
		t.Run(name, func(t *testing.T) {
			require.NotEqual(t, base, mutated.ChecksumArgs(payloadHash).Checksum())
		})
	}

	t.Run("Payload", func(t *testing.T) {
		otherPayload := crypto.Keccak256Hash([]byte("other payload"))
		require.NotEqual(t, base, testIdentifier().ChecksumArgs(otherPayload).Checksum())
	})
}

func TestExecutingMessageFromIdentifier(t *testing.T) {
	payloadHash := crypto.Keccak256Hash([]byte("payload"))
	id := testIdentifier()
	msg := id.ExecutingMessage(payloadHash)
	require.Equal(t, id.ChainID, msg.ChainID)
	require.Equal(t, id.BlockNumber, msg.BlockNum)
	require.Equal(t, id.LogIndex, msg.LogIdx)
	require.Equal(t, id.Timestamp, msg.Timestamp)
	require.Equal(t, id.ChecksumArgs(payloadHash).Checksum(), msg.Checksum)
}

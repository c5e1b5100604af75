package l2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/opstack-labs/superfault/supervisor"
)

// SealedBlock is the per-chain block commitment the consolidation engine
// operates on. The block hash is the keccak256 hash of the RLP encoding, so
// every field is covered by the preimage oracle's content check.
type SealedBlock struct {
	ParentHash common.Hash
	Number     uint64
	Time       uint64
	// MessagesRoot commits to the block's message activity, see BlockMessages.
	MessagesRoot common.Hash
}

func (b *SealedBlock) Marshal() []byte {
	data, err := rlp.EncodeToBytes(b)
	if err != nil {
		panic(err)
	}
	return data
}

func (b *SealedBlock) Hash() common.Hash {
	return crypto.Keccak256Hash(b.Marshal())
}

func (b *SealedBlock) Seal() supervisor.BlockSeal {
	return supervisor.BlockSeal{
		Hash:      b.Hash(),
		Number:    b.Number,
		Timestamp: b.Time,
	}
}

func UnmarshalSealedBlock(data []byte) (*SealedBlock, error) {
	var block SealedBlock
	if err := rlp.DecodeBytes(data, &block); err != nil {
		return nil, fmt.Errorf("invalid sealed block: %w", err)
	}
	return &block, nil
}

// BlockMessages is the structured preimage of a block's cross-chain message
// activity: the messages its execution emitted and the messages its
// execution consumed. The index of an initiating message in the emitted set
// is its nonce.
type BlockMessages struct {
	Initiating []supervisor.InitiatingMessage
	Executing  []supervisor.ExecutingMessage
}

func (m *BlockMessages) Marshal() []byte {
	data, err := rlp.EncodeToBytes(m)
	if err != nil {
		panic(err)
	}
	return data
}

func (m *BlockMessages) Root() common.Hash {
	return crypto.Keccak256Hash(m.Marshal())
}

func UnmarshalBlockMessages(data []byte) (*BlockMessages, error) {
	var messages BlockMessages
	if err := rlp.DecodeBytes(data, &messages); err != nil {
		return nil, fmt.Errorf("invalid block messages: %w", err)
	}
	return &messages, nil
}

package l2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/opstack-labs/superfault/supervisor"
)

type BlockByHashFn func(hash common.Hash) (*SealedBlock, error)

// CanonicalBlockOracle resolves block numbers on one chain by walking parent
// hashes back from a trusted head. Blocks above the head, or below genesis,
// do not exist on the canonical chain.
type CanonicalBlockOracle struct {
	head          *SealedBlock
	hashByNum     map[uint64]common.Hash
	earliestBlock *SealedBlock
	blockByHashFn BlockByHashFn
}

func NewCanonicalBlockOracle(head *SealedBlock, blockByHashFn BlockByHashFn) *CanonicalBlockOracle {
	return &CanonicalBlockOracle{
		head: head,
		hashByNum: map[uint64]common.Hash{
			head.Number: head.Hash(),
		},
		earliestBlock: head,
		blockByHashFn: blockByHashFn,
	}
}

func (o *CanonicalBlockOracle) Head() *SealedBlock {
	return o.head
}

// BlockByNumber walks back from the head to the requested block number.
func (o *CanonicalBlockOracle) BlockByNumber(n uint64) (*SealedBlock, error) {
	if o.head.Number < n {
		return nil, fmt.Errorf("block %d is above chain head %d: %w", n, o.head.Number, supervisor.ErrConflict)
	}

	if o.earliestBlock.Number <= n {
		// guaranteed to be cached during an earlier walk
		hash, ok := o.hashByNum[n]
		if !ok {
			panic(fmt.Sprintf("block %v was not indexed when earliest block number is %v", n, o.earliestBlock.Number))
		}
		return o.blockByHashFn(hash)
	}

	h := o.earliestBlock
	for h.Number > n {
		hash := h.ParentHash
		parent, err := o.blockByHashFn(hash)
		if err != nil {
			return nil, err
		}
		if parent.Number != h.Number-1 {
			return nil, fmt.Errorf("parent %s of block %d has number %d: %w", hash, h.Number, parent.Number, supervisor.ErrConflict)
		}
		h = parent
		o.hashByNum[h.Number] = hash
	}
	o.earliestBlock = h
	return h, nil
}

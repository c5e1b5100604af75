package l2

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/opstack-labs/superfault/supervisor"
)

// buildChain returns blocks 0..count-1 linked by parent hash.
func buildChain(count int) []*SealedBlock {
	blocks := make([]*SealedBlock, count)
	parent := common.Hash{}
	for i := 0; i < count; i++ {
		blocks[i] = &SealedBlock{
			ParentHash:   parent,
			Number:       uint64(i),
			Time:         uint64(1000 + i),
			MessagesRoot: common.Hash{byte(i)},
		}
		parent = blocks[i].Hash()
	}
	return blocks
}

func chainLookup(t *testing.T, blocks []*SealedBlock) (BlockByHashFn, *int) {
	byHash := make(map[common.Hash]*SealedBlock, len(blocks))
	for _, block := range blocks {
		byHash[block.Hash()] = block
	}
	lookups := new(int)
	return func(hash common.Hash) (*SealedBlock, error) {
		*lookups++
		block, ok := byHash[hash]
		if !ok {
			return nil, fmt.Errorf("unknown block %s", hash)
		}
		return block, nil
	}, lookups
}

func TestCanonicalBlockOracle_WalksBack(t *testing.T) {
	blocks := buildChain(10)
	lookup, _ := chainLookup(t, blocks)
	canon := NewCanonicalBlockOracle(blocks[9], lookup)

	block, err := canon.BlockByNumber(4)
	require.NoError(t, err)
	require.Equal(t, blocks[4], block)

	block, err = canon.BlockByNumber(9)
	require.NoError(t, err)
	require.Equal(t, blocks[9], block)
}

func TestCanonicalBlockOracle_AboveHead(t *testing.T) {
	blocks := buildChain(3)
	lookup, _ := chainLookup(t, blocks)
	canon := NewCanonicalBlockOracle(blocks[2], lookup)

	_, err := canon.BlockByNumber(3)
	require.ErrorIs(t, err, supervisor.ErrConflict)
}

func TestCanonicalBlockOracle_CachesWalkedBlocks(t *testing.T) {
	blocks := buildChain(10)
	lookup, lookups := chainLookup(t, blocks)
	canon := NewCanonicalBlockOracle(blocks[9], lookup)

	_, err := canon.BlockByNumber(2)
	require.NoError(t, err)
	walked := *lookups

	// Blocks within the already-walked range are served from the index.
	_, err = canon.BlockByNumber(5)
	require.NoError(t, err)
	require.Equal(t, walked+1, *lookups) // one lookup to load the cached hash
}

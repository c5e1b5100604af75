package l2

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	interopTypes "github.com/opstack-labs/superfault/client/interop/types"
	"github.com/opstack-labs/superfault/eth"
)

// blockCacheSize should be set large enough to cover walking back a chain's
// canonical history when resolving initiating-message inclusion.
const blockCacheSize = 3_000
const messagesCacheSize = 1_000
const outputCacheSize = 100

// CachingOracle caches decoded preimages in front of another Oracle.
// Parallel fetches of independent chains' data may race on these caches
// without affecting the verdict: entries are immutable once decoded.
type CachingOracle struct {
	oracle   Oracle
	blocks   *simplelru.LRU[common.Hash, *SealedBlock]
	messages *simplelru.LRU[common.Hash, *BlockMessages]
	outputs  *simplelru.LRU[common.Hash, eth.Output]
}

var _ Oracle = (*CachingOracle)(nil)

func NewCachingOracle(oracle Oracle) *CachingOracle {
	blockLRU, _ := simplelru.NewLRU[common.Hash, *SealedBlock](blockCacheSize, nil)
	messagesLRU, _ := simplelru.NewLRU[common.Hash, *BlockMessages](messagesCacheSize, nil)
	outputLRU, _ := simplelru.NewLRU[common.Hash, eth.Output](outputCacheSize, nil)
	return &CachingOracle{
		oracle:   oracle,
		blocks:   blockLRU,
		messages: messagesLRU,
		outputs:  outputLRU,
	}
}

func (o *CachingOracle) BlockByHash(blockHash common.Hash, chainID eth.ChainID) (*SealedBlock, error) {
	block, ok := o.blocks.Get(blockHash)
	if ok {
		return block, nil
	}
	block, err := o.oracle.BlockByHash(blockHash, chainID)
	if err != nil {
		return nil, err
	}
	o.blocks.Add(blockHash, block)
	return block, nil
}

func (o *CachingOracle) MessagesByRoot(messagesRoot common.Hash, chainID eth.ChainID) (*BlockMessages, error) {
	messages, ok := o.messages.Get(messagesRoot)
	if ok {
		return messages, nil
	}
	messages, err := o.oracle.MessagesByRoot(messagesRoot, chainID)
	if err != nil {
		return nil, err
	}
	o.messages.Add(messagesRoot, messages)
	return messages, nil
}

func (o *CachingOracle) OutputByRoot(root common.Hash, chainID eth.ChainID) (eth.Output, error) {
	output, ok := o.outputs.Get(root)
	if ok {
		return output, nil
	}
	output, err := o.oracle.OutputByRoot(root, chainID)
	if err != nil {
		return nil, err
	}
	o.outputs.Add(root, output)
	return output, nil
}

func (o *CachingOracle) TransitionStateByRoot(root common.Hash) (*interopTypes.TransitionState, error) {
	// Only requested once per proof run, so there is nothing to cache.
	return o.oracle.TransitionStateByRoot(root)
}

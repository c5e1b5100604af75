package test

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	interopTypes "github.com/opstack-labs/superfault/client/interop/types"
	"github.com/opstack-labs/superfault/client/l2"
	"github.com/opstack-labs/superfault/eth"
)

// StubOracle is a map-backed l2.Oracle for tests. Entries are keyed by hash
// only: chain IDs share one namespace, which fixture builders keep distinct
// by construction.
type StubOracle struct {
	Blocks           map[common.Hash]*l2.SealedBlock
	Messages         map[common.Hash]*l2.BlockMessages
	Outputs          map[common.Hash]eth.Output
	TransitionStates map[common.Hash]*interopTypes.TransitionState
}

var _ l2.Oracle = (*StubOracle)(nil)

func NewStubOracle() *StubOracle {
	return &StubOracle{
		Blocks:           make(map[common.Hash]*l2.SealedBlock),
		Messages:         make(map[common.Hash]*l2.BlockMessages),
		Outputs:          make(map[common.Hash]eth.Output),
		TransitionStates: make(map[common.Hash]*interopTypes.TransitionState),
	}
}

// AddBlock stores a block and its message activity, returning the block seal.
func (o *StubOracle) AddBlock(block *l2.SealedBlock, messages *l2.BlockMessages) common.Hash {
	hash := block.Hash()
	o.Blocks[hash] = block
	if messages != nil {
		o.Messages[block.MessagesRoot] = messages
	}
	return hash
}

// AddOutput stores an output preimage and returns its output root.
func (o *StubOracle) AddOutput(output eth.Output) eth.Bytes32 {
	root := eth.OutputRoot(output)
	o.Outputs[common.Hash(root)] = output
	return root
}

func (o *StubOracle) BlockByHash(blockHash common.Hash, chainID eth.ChainID) (*l2.SealedBlock, error) {
	block, ok := o.Blocks[blockHash]
	if !ok {
		return nil, fmt.Errorf("unknown block %s", blockHash)
	}
	return block, nil
}

func (o *StubOracle) MessagesByRoot(messagesRoot common.Hash, chainID eth.ChainID) (*l2.BlockMessages, error) {
	messages, ok := o.Messages[messagesRoot]
	if !ok {
		return nil, fmt.Errorf("unknown messages root %s", messagesRoot)
	}
	return messages, nil
}

func (o *StubOracle) OutputByRoot(root common.Hash, chainID eth.ChainID) (eth.Output, error) {
	output, ok := o.Outputs[root]
	if !ok {
		return nil, fmt.Errorf("unknown output root %s", root)
	}
	return output, nil
}

func (o *StubOracle) TransitionStateByRoot(root common.Hash) (*interopTypes.TransitionState, error) {
	state, ok := o.TransitionStates[root]
	if !ok {
		return nil, fmt.Errorf("unknown transition state %s", root)
	}
	return state, nil
}

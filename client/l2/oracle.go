package l2

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	interopTypes "github.com/opstack-labs/superfault/client/interop/types"
	"github.com/opstack-labs/superfault/eth"
	"github.com/opstack-labs/superfault/preimage"
)

// Oracle defines the high-level API used to retrieve L2 data.
// The returned data is always the preimage of the requested hash.
type Oracle interface {
	// BlockByHash retrieves the sealed block with the given hash.
	BlockByHash(blockHash common.Hash, chainID eth.ChainID) (*SealedBlock, error)

	// MessagesByRoot retrieves the message activity committed to by a
	// block's messages root.
	MessagesByRoot(messagesRoot common.Hash, chainID eth.ChainID) (*BlockMessages, error)

	// OutputByRoot retrieves the output preimage for a given output root.
	OutputByRoot(root common.Hash, chainID eth.ChainID) (eth.Output, error)

	// TransitionStateByRoot retrieves the agreed prestate for a given
	// prestate commitment.
	TransitionStateByRoot(root common.Hash) (*interopTypes.TransitionState, error)
}

// PreimageOracle implements Oracle by interfacing with the preimage oracle
// client to fetch pre-images to decode into the requested data.
type PreimageOracle struct {
	oracle preimage.Oracle
	hint   preimage.Hinter
}

var _ Oracle = (*PreimageOracle)(nil)

func NewPreimageOracle(raw preimage.Oracle, hint preimage.Hinter) *PreimageOracle {
	return &PreimageOracle{
		oracle: raw,
		hint:   hint,
	}
}

func (p *PreimageOracle) BlockByHash(blockHash common.Hash, chainID eth.ChainID) (*SealedBlock, error) {
	p.hint.Hint(BlockHint{Hash: blockHash, ChainID: chainID})
	data, err := p.oracle.Get(preimage.Keccak256Key(blockHash))
	if err != nil {
		return nil, err
	}
	block, err := UnmarshalSealedBlock(data)
	if err != nil {
		return nil, fmt.Errorf("invalid block %s: %w", blockHash, err)
	}
	return block, nil
}

func (p *PreimageOracle) MessagesByRoot(messagesRoot common.Hash, chainID eth.ChainID) (*BlockMessages, error) {
	p.hint.Hint(BlockMessagesHint{Hash: messagesRoot, ChainID: chainID})
	data, err := p.oracle.Get(preimage.Keccak256Key(messagesRoot))
	if err != nil {
		return nil, err
	}
	messages, err := UnmarshalBlockMessages(data)
	if err != nil {
		return nil, fmt.Errorf("invalid message data for root %s: %w", messagesRoot, err)
	}
	return messages, nil
}

func (p *PreimageOracle) OutputByRoot(l2OutputRoot common.Hash, chainID eth.ChainID) (eth.Output, error) {
	p.hint.Hint(L2OutputHint{Hash: l2OutputRoot, ChainID: chainID})
	data, err := p.oracle.Get(preimage.Keccak256Key(l2OutputRoot))
	if err != nil {
		return nil, err
	}
	output, err := eth.UnmarshalOutput(data)
	if err != nil {
		return nil, fmt.Errorf("invalid L2 output data for root %s: %w", l2OutputRoot, err)
	}
	return output, nil
}

func (p *PreimageOracle) TransitionStateByRoot(root common.Hash) (*interopTypes.TransitionState, error) {
	p.hint.Hint(AgreedPrestateHint(root))
	data, err := p.oracle.Get(preimage.Keccak256Key(root))
	if err != nil {
		return nil, err
	}
	state, err := interopTypes.UnmarshalTransitionState(data)
	if err != nil {
		return nil, fmt.Errorf("invalid agreed prestate data for root %s: %w", root, err)
	}
	return state, nil
}

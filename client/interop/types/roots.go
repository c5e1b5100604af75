package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/opstack-labs/superfault/eth"
)

var (
	IntermediateTransitionVersion = byte(255)
)

// OptimisticBlock is a per-chain transition descriptor: the claimed head
// block and output root a chain is proposed to reach in the consolidation
// window, prior to cross-chain validation.
type OptimisticBlock struct {
	BlockHash  common.Hash
	OutputRoot eth.Bytes32
}

// TransitionState is the wire form of an agreed prestate part-way through a
// super root transition: the agreed super root, the per-chain optimistic
// progress so far, and the step counter.
type TransitionState struct {
	SuperRoot       []byte
	PendingProgress []OptimisticBlock
	Step            uint64
}

func (t *TransitionState) String() string {
	return fmt.Sprintf("{SuperRoot: %x, PendingProgress: %v, Step: %d}", t.SuperRoot, t.PendingProgress, t.Step)
}

func (t *TransitionState) Version() byte {
	return IntermediateTransitionVersion
}

func (t *TransitionState) Marshal() []byte {
	rlpData, err := rlp.EncodeToBytes(t)
	if err != nil {
		panic(err)
	}
	return append([]byte{IntermediateTransitionVersion}, rlpData...)
}

func (t *TransitionState) Hash() common.Hash {
	data := t.Marshal()
	return crypto.Keccak256Hash(data)
}

// UnmarshalTransitionState decodes an agreed prestate preimage. A bare super
// root (the first step in a timestamp) is converted to a TransitionState
// with Step 0 and no pending progress.
func UnmarshalTransitionState(data []byte) (*TransitionState, error) {
	if len(data) == 0 {
		return nil, eth.ErrInvalidSuperRoot
	}
	switch data[0] {
	case IntermediateTransitionVersion:
		return unmarshalTransitionState(data)
	case eth.SuperRootVersionV1:
		return &TransitionState{SuperRoot: data}, nil
	default:
		return nil, eth.ErrInvalidSuperRootVersion
	}
}

func unmarshalTransitionState(data []byte) (*TransitionState, error) {
	var state TransitionState
	if err := rlp.DecodeBytes(data[1:], &state); err != nil {
		return nil, fmt.Errorf("%w: %v", eth.ErrInvalidSuperRoot, err)
	}
	return &state, nil
}

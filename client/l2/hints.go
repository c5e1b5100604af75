package l2

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/opstack-labs/superfault/eth"
	"github.com/opstack-labs/superfault/preimage"
)

const (
	HintL2Block         = "l2-sealed-block"
	HintL2BlockMessages = "l2-block-messages"
	HintL2Output        = "l2-output"
	HintAgreedPrestate  = "agreed-pre-state"
)

type HashAndChainID struct {
	Hash    common.Hash
	ChainID eth.ChainID
}

func (h HashAndChainID) Marshal() []byte {
	d := make([]byte, 32+8)
	copy(d[:32], h.Hash[:])
	binary.BigEndian.PutUint64(d[32:], eth.EvilChainIDToUInt64(h.ChainID))
	return d
}

type BlockHint HashAndChainID

var _ preimage.Hint = BlockHint{}

func (l BlockHint) Hint() string {
	return HintL2Block + " " + hexutil.Encode(HashAndChainID(l).Marshal())
}

type BlockMessagesHint HashAndChainID

var _ preimage.Hint = BlockMessagesHint{}

func (l BlockMessagesHint) Hint() string {
	return HintL2BlockMessages + " " + hexutil.Encode(HashAndChainID(l).Marshal())
}

type L2OutputHint HashAndChainID

var _ preimage.Hint = L2OutputHint{}

func (l L2OutputHint) Hint() string {
	return HintL2Output + " " + hexutil.Encode(HashAndChainID(l).Marshal())
}

type AgreedPrestateHint common.Hash

var _ preimage.Hint = AgreedPrestateHint{}

func (l AgreedPrestateHint) Hint() string {
	return HintAgreedPrestate + " " + (common.Hash)(l).String()
}

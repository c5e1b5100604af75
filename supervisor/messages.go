package supervisor

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/opstack-labs/superfault/eth"
)

// InitiatingMessage is an entry in the emitted-message set of a block.
// Its nonce is its index within that set.
type InitiatingMessage struct {
	// Origin is the address that emitted the message on the origin chain.
	Origin common.Address
	// PayloadHash is the keccak256 hash of the message payload.
	PayloadHash common.Hash
}

// ExecutingMessage is a reference to an InitiatingMessage, consumed by
// execution on a destination chain. It identifies the initiating message by
// origin chain, origin block and nonce, and commits to its content and
// position via the checksum.
type ExecutingMessage struct {
	// ChainID of the chain the initiating message was emitted on.
	ChainID eth.ChainID
	// BlockNum of the origin block containing the initiating message.
	BlockNum uint64
	// LogIdx is the nonce of the initiating message within its block's
	// emitted-message set.
	LogIdx uint32
	// Timestamp of the origin block.
	Timestamp uint64
	Checksum  MessageChecksum
}

func (s *ExecutingMessage) String() string {
	return fmt.Sprintf("ExecMsg(chain: %s, block: %d, log: %d, time: %d, checksum: %s)",
		s.ChainID, s.BlockNum, s.LogIdx, s.Timestamp, s.Checksum)
}

// ContainsQuery contains all the information needed to check a message
// against a chain's emitted-message data, to determine if it is valid.
type ContainsQuery struct {
	Timestamp uint64
	BlockNum  uint64
	LogIdx    uint32
	Checksum  MessageChecksum
}

// MessageChecksum is a versioned commitment to a message's origin identity,
// position and payload. The first byte is the checksum type.
type MessageChecksum common.Hash

func (mc MessageChecksum) String() string {
	return hexutil.Encode(mc[:])
}

func (mc MessageChecksum) MarshalText() ([]byte, error) {
	return []byte(mc.String()), nil
}

func (mc *MessageChecksum) UnmarshalText(data []byte) error {
	return (*common.Hash)(mc).UnmarshalText(data)
}

type ChecksumArgs struct {
	BlockNumber uint64
	LogIndex    uint32
	Timestamp   uint64
	ChainID     eth.ChainID
	LogHash     common.Hash
}

func (args ChecksumArgs) Checksum() MessageChecksum {
	idPacked := make([]byte, 12, 32) // 12 zero bytes, as padding to 32 bytes
	idPacked = binary.BigEndian.AppendUint64(idPacked, args.BlockNumber)
	idPacked = binary.BigEndian.AppendUint64(idPacked, args.Timestamp)
	idPacked = binary.BigEndian.AppendUint32(idPacked, args.LogIndex)
	idLogHash := crypto.Keccak256Hash(args.LogHash[:], idPacked)
	chainID := args.ChainID.Bytes32()
	out := crypto.Keccak256Hash(idLogHash[:], chainID[:])
	out[0] = 0x03 // type/version byte
	return MessageChecksum(out)
}

func (args ChecksumArgs) Query() ContainsQuery {
	return ContainsQuery{
		BlockNum:  args.BlockNumber,
		Timestamp: args.Timestamp,
		LogIdx:    args.LogIndex,
		Checksum:  args.Checksum(),
	}
}

// Identifier names an initiating message by its position on the origin chain.
type Identifier struct {
	Origin      common.Address
	BlockNumber uint64
	LogIndex    uint32
	Timestamp   uint64
	ChainID     eth.ChainID // flat, not a pointer, to make Identifier safe as map key
}

func (id Identifier) ChecksumArgs(payloadHash common.Hash) ChecksumArgs {
	return ChecksumArgs{
		BlockNumber: id.BlockNumber,
		Timestamp:   id.Timestamp,
		LogIndex:    id.LogIndex,
		ChainID:     id.ChainID,
		LogHash:     PayloadHashToLogHash(payloadHash, id.Origin),
	}
}

// ExecutingMessage builds the executing-side reference to the identified
// initiating message.
func (id Identifier) ExecutingMessage(payloadHash common.Hash) *ExecutingMessage {
	return &ExecutingMessage{
		ChainID:   id.ChainID,
		BlockNum:  id.BlockNumber,
		LogIdx:    id.LogIndex,
		Timestamp: id.Timestamp,
		Checksum:  id.ChecksumArgs(payloadHash).Checksum(),
	}
}

// PayloadHashToLogHash converts the payload hash to the log hash.
// It is the hash of the concatenation of the emitting address and the
// payload hash, binding the message content to its origin identity.
func PayloadHashToLogHash(payloadHash common.Hash, addr common.Address) common.Hash {
	msg := make([]byte, 0, 2*common.HashLength)
	msg = append(msg, addr.Bytes()...)
	msg = append(msg, payloadHash.Bytes()...)
	return crypto.Keccak256Hash(msg)
}

type BlockSeal struct {
	Hash      common.Hash `json:"hash"`
	Number    uint64      `json:"number"`
	Timestamp uint64      `json:"timestamp"`
}

func (s BlockSeal) String() string {
	return fmt.Sprintf("BlockSeal(hash:%s, number:%d, time:%d)", s.Hash, s.Number, s.Timestamp)
}

func (s BlockSeal) ID() eth.BlockID {
	return eth.BlockID{Hash: s.Hash, Number: s.Number}
}

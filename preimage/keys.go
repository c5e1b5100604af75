package preimage

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// KeyType is the first byte of a preimage key, identifying how the
// remaining bytes relate to the preimage content.
type KeyType byte

const (
	// LocalKeyType is for input data to the program, provided by the host
	// of the current proof run. Not globally content-addressed.
	LocalKeyType KeyType = 1

	// Keccak256KeyType is for keccak256 pre-images, globally content-addressed.
	Keccak256KeyType KeyType = 2
)

// Key is a pre-image identifier. The type byte distinguishes the key spaces.
type Key interface {
	// PreimageKey returns the 32-byte key to request the preimage with.
	PreimageKey() common.Hash
}

// LocalIndexKey is a key local to the current proof run, indexing bootstrap
// input data provided by the host.
type LocalIndexKey uint64

func (k LocalIndexKey) PreimageKey() (out common.Hash) {
	out[0] = byte(LocalKeyType)
	binary.BigEndian.PutUint64(out[24:], uint64(k))
	return
}

// Keccak256Key identifies a preimage by the keccak256 hash of its content.
type Keccak256Key common.Hash

func (k Keccak256Key) PreimageKey() (out common.Hash) {
	out = common.Hash(k)
	out[0] = byte(Keccak256KeyType)
	return
}

func (k Keccak256Key) String() string {
	return common.Hash(k).String()
}

func (k Keccak256Key) TerminalString() string {
	return common.Hash(k).TerminalString()
}

// Hint is an advisory descriptor sent to the external preimage provider
// before fetching, telling it what data to prepare. Hints never affect
// correctness, only availability.
type Hint interface {
	Hint() string
}

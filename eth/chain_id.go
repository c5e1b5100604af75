package eth

import (
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// ChainID identifies a chain within the interop dependency set.
// It is a 256-bit value so registry entries can carry full EIP-155 identifiers,
// and is comparable so it can key per-chain maps.
type ChainID uint256.Int

func ChainIDFromBig(chainID *big.Int) ChainID {
	return ChainID(*uint256.MustFromBig(chainID))
}

func ChainIDFromUInt64(i uint64) ChainID {
	return ChainID(*uint256.NewInt(i))
}

func ChainIDFromBytes32(b [32]byte) ChainID {
	val := new(uint256.Int).SetBytes(b[:])
	return ChainID(*val)
}

func ParseDecimalChainID(chainID string) (ChainID, error) {
	v, err := uint256.FromDecimal(chainID)
	if err != nil {
		return ChainID{}, err
	}
	return ChainID(*v), nil
}

func (id ChainID) String() string {
	return ((*uint256.Int)(&id)).Dec()
}

// Uint64 returns the chain ID as uint64, and a flag reporting whether it fits.
func (id ChainID) Uint64() (uint64, bool) {
	v := (*uint256.Int)(&id)
	return v.Uint64(), v.IsUint64()
}

func (id ChainID) Bytes32() [32]byte {
	return (*uint256.Int)(&id).Bytes32()
}

func (id ChainID) ToBig() *big.Int {
	v := uint256.Int(id)
	return v.ToBig()
}

func (id ChainID) Cmp(other ChainID) int {
	a := uint256.Int(id)
	b := uint256.Int(other)
	return a.Cmp(&b)
}

func (id ChainID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ChainID) UnmarshalText(data []byte) error {
	v, err := uint256.FromDecimal(string(data))
	if err != nil {
		return err
	}
	*id = ChainID(*v)
	return nil
}

// EncodeRLP encodes the chain ID as a minimal big-endian byte string,
// so it round-trips through the wire codecs that embed it.
func (id ChainID) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, (*uint256.Int)(&id).Bytes())
}

func (id *ChainID) DecodeRLP(s *rlp.Stream) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(b) > 32 {
		return fmt.Errorf("chain ID too large: %d bytes", len(b))
	}
	(*uint256.Int)(id).SetBytes(b)
	return nil
}

// EvilChainIDToUInt64 converts a ChainID to a uint64 and panics if it overflows.
// Only for use in hint encodings that still assume 64-bit chain IDs.
func EvilChainIDToUInt64(id ChainID) uint64 {
	v := (*uint256.Int)(&id)
	if !v.IsUint64() {
		panic(fmt.Errorf("chain ID %v too large for uint64", id))
	}
	return v.Uint64()
}

package boot

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/opstack-labs/superfault/depset"
	"github.com/opstack-labs/superfault/preimage"
)

// Local indices of the bootstrap inputs provided by the host.
const (
	L1HeadLocalIndex preimage.LocalIndexKey = iota + 1
	AgreedPrestateLocalIndex
	ClaimLocalIndex
	GameTimestampLocalIndex
	DependencySetLocalIndex
)

var (
	ErrInvalidBootData = errors.New("invalid boot data")
)

type oracleClient interface {
	Get(key preimage.Key) ([]byte, error)
}

// BootInfoInterop is the claim input of one proof run: the agreed prestate
// commitment, the disputed claim, and the configuration sources.
type BootInfoInterop struct {
	Configs ConfigSource

	L1Head         common.Hash
	AgreedPrestate common.Hash
	Claim          common.Hash
	GameTimestamp  uint64
}

type ConfigSource interface {
	DependencySet() (depset.DependencySet, error)
}

// OracleConfigSource loads registry data through the preimage oracle's
// local key space, lazily and at most once.
type OracleConfigSource struct {
	oracle oracleClient

	depset depset.DependencySet
}

func (c *OracleConfigSource) DependencySet() (depset.DependencySet, error) {
	if c.depset != nil {
		return c.depset, nil
	}
	data, err := c.oracle.Get(DependencySetLocalIndex)
	if err != nil {
		return nil, err
	}
	var ds depset.StaticConfigDependencySet
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: invalid dependency set: %v", ErrInvalidBootData, err)
	}
	c.depset = &ds
	return c.depset, nil
}

func BootstrapInterop(r oracleClient) (*BootInfoInterop, error) {
	l1Head, err := hashInput(r, L1HeadLocalIndex)
	if err != nil {
		return nil, err
	}
	agreedPrestate, err := hashInput(r, AgreedPrestateLocalIndex)
	if err != nil {
		return nil, err
	}
	claim, err := hashInput(r, ClaimLocalIndex)
	if err != nil {
		return nil, err
	}
	timestampData, err := r.Get(GameTimestampLocalIndex)
	if err != nil {
		return nil, err
	}
	if len(timestampData) != 8 {
		return nil, fmt.Errorf("%w: game timestamp must be 8 bytes, got %d", ErrInvalidBootData, len(timestampData))
	}

	return &BootInfoInterop{
		Configs:        &OracleConfigSource{oracle: r},
		L1Head:         l1Head,
		AgreedPrestate: agreedPrestate,
		Claim:          claim,
		GameTimestamp:  binary.BigEndian.Uint64(timestampData),
	}, nil
}

func hashInput(r oracleClient, index preimage.LocalIndexKey) (common.Hash, error) {
	data, err := r.Get(index)
	if err != nil {
		return common.Hash{}, err
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: input %v must be 32 bytes, got %d", ErrInvalidBootData, index, len(data))
	}
	return common.BytesToHash(data), nil
}

package depset

import (
	"github.com/opstack-labs/superfault/eth"
)

// DependencySet is an initialized dependency set, ready to answer queries
// of what is and what is not part of the interop set.
// It is static registry data: queried, never mutated.
type DependencySet interface {
	// Chains returns the list of chains that are part of the dependency set,
	// sorted by ascending chain ID.
	Chains() []eth.ChainID

	// HasChain determines if a chain is being tracked for interop purposes.
	HasChain(chainID eth.ChainID) bool

	// MessageExpiryWindow returns the maximum age, in seconds, of an
	// initiating message that an executing message may still reference.
	MessageExpiryWindow() uint64
}

package depset

import (
	"github.com/opstack-labs/superfault/eth"
	"github.com/opstack-labs/superfault/safemath"
)

type LinkChecker interface {
	// CanExecute determines if an executing message is valid w.r.t. chain and timestamp constraints.
	// I.e. if the chain may be executing messages at the given timestamp,
	// from the given chain at the given initiating timestamp.
	// I.e. this does not check a full message, it merely checks some linking constraints.
	CanExecute(execInChain eth.ChainID, execInTimestamp uint64, initChainID eth.ChainID, initTimestamp uint64) bool
}

// LinkCheckerImpl implements a LinkChecker using the provided dependency set
type LinkCheckerImpl struct {
	cfg DependencySet
}

func LinkerFromConfig(cfg DependencySet) *LinkCheckerImpl {
	return &LinkCheckerImpl{cfg: cfg}
}

func (lc *LinkCheckerImpl) CanExecute(execInChain eth.ChainID,
	execInTimestamp uint64, initChainID eth.ChainID, initTimestamp uint64) bool {
	// Check the chains exist in the dependency set.
	if !lc.cfg.HasChain(execInChain) {
		return false
	}
	if !lc.cfg.HasChain(initChainID) {
		return false
	}
	if initTimestamp > execInTimestamp {
		return false
	}
	expiresAt := safemath.SaturatingAdd(initTimestamp, lc.cfg.MessageExpiryWindow())
	if expiresAt < execInTimestamp { // expiry check
		return false
	}
	return true
}

// LinkCheckFn is a function-type that implements LinkChecker, for testing and other special case definitions
type LinkCheckFn func(execInChain eth.ChainID, execInTimestamp uint64, initChainID eth.ChainID, initTimestamp uint64) bool

func (lFn LinkCheckFn) CanExecute(execInChain eth.ChainID, execInTimestamp uint64, initChainID eth.ChainID, initTimestamp uint64) bool {
	return lFn(execInChain, execInTimestamp, initChainID, initTimestamp)
}

var _ LinkChecker = (LinkCheckFn)(nil)

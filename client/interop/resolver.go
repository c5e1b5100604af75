package interop

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-labs/superfault/client/l2"
	"github.com/opstack-labs/superfault/depset"
	"github.com/opstack-labs/superfault/eth"
	"github.com/opstack-labs/superfault/safemath"
	"github.com/opstack-labs/superfault/supervisor"
)

// visitKey identifies one block under resolution within a pass.
type visitKey struct {
	chainID  eth.ChainID
	blockNum uint64
}

// resolver checks the executing messages of each chain's pending block
// against the initiating chain's data. Failures are classified through the
// supervisor error taxonomy: ErrConflict invalidates the transition,
// ErrFuture and ErrUnknownChain leave it pending for the no-progress rule.
type resolver struct {
	logger log.Logger
	oracle l2.Oracle
	depSet depset.DependencySet
	linker depset.LinkChecker

	// window is the timestamp every pending block must carry.
	window      uint64
	transitions map[eth.ChainID]*PendingTransition
	canon       map[eth.ChainID]*l2.CanonicalBlockOracle

	// visited tracks blocks already under resolution in the current pass, so
	// a dependency that re-enters one of them is reported as a cycle.
	visited map[visitKey]struct{}
}

func newResolver(logger log.Logger, oracle l2.Oracle, depSet depset.DependencySet,
	superRoot *eth.SuperV1, transitions map[eth.ChainID]*PendingTransition) (*resolver, error) {
	canon := make(map[eth.ChainID]*l2.CanonicalBlockOracle, len(superRoot.Chains))
	for _, chain := range superRoot.Chains {
		head, err := agreedHead(oracle, chain)
		if err != nil {
			return nil, fmt.Errorf("failed to load agreed head of chain %v: %w", chain.ChainID, err)
		}
		chainID := chain.ChainID
		canon[chainID] = l2.NewCanonicalBlockOracle(head, func(hash common.Hash) (*l2.SealedBlock, error) {
			return oracle.BlockByHash(hash, chainID)
		})
	}
	return &resolver{
		logger:      logger,
		oracle:      oracle,
		depSet:      depSet,
		linker:      depset.LinkerFromConfig(depSet),
		window:      superRoot.Timestamp + 1,
		transitions: transitions,
		canon:       canon,
		visited:     make(map[visitKey]struct{}),
	}, nil
}

// agreedHead resolves a chain's agreed output root to its head block.
func agreedHead(oracle l2.Oracle, chain eth.ChainIDAndOutput) (*l2.SealedBlock, error) {
	output, err := oracle.OutputByRoot(common.Hash(chain.Output), chain.ChainID)
	if err != nil {
		return nil, err
	}
	outputV0, ok := output.(*eth.OutputV0)
	if !ok {
		return nil, fmt.Errorf("%w: version %v", ErrIncorrectOutputRootType, output.Version())
	}
	return oracle.BlockByHash(outputV0.BlockHash, chain.ChainID)
}

// beginPass clears the visited set. Within one pass, later chains still see
// the blocks earlier chains put under resolution.
func (r *resolver) beginPass() {
	clear(r.visited)
}

// resolveChain checks all executing messages of the chain's pending block.
// nil means every message resolved against valid initiating data. The first
// conflict is returned immediately. Unresolved references are reported only
// after the remaining messages have been scanned for conflicts, so a chain
// with both never resolves valid in a later pass.
func (r *resolver) resolveChain(t *PendingTransition) error {
	block, messages, err := r.pendingBlock(t)
	if err != nil {
		return err
	}
	r.visited[visitKey{t.ChainID, block.Number}] = struct{}{}
	r.logger.Debug("Resolving chain transition", "chain", t.ChainID, "block", block.Number, "messages", len(messages.Executing))

	var unresolved error
	for i := range messages.Executing {
		msg := &messages.Executing[i]
		err := r.checkExecutingMessage(t, block, messages, msg)
		switch {
		case err == nil:
		case errors.Is(err, supervisor.ErrConflict):
			return err
		case errors.Is(err, supervisor.ErrFuture), errors.Is(err, supervisor.ErrUnknownChain):
			if unresolved == nil {
				unresolved = err
			}
		default:
			return err
		}
	}
	return unresolved
}

// pendingBlock loads the block and message data the chain's claimed output
// root commits to. Inconsistencies between the claim and its own preimages
// are conflicts of that claim, not fatal errors.
func (r *resolver) pendingBlock(t *PendingTransition) (*l2.SealedBlock, *l2.BlockMessages, error) {
	output, err := r.oracle.OutputByRoot(common.Hash(t.Claimed.OutputRoot), t.ChainID)
	if err != nil {
		return nil, nil, err
	}
	outputV0, ok := output.(*eth.OutputV0)
	if !ok {
		return nil, nil, fmt.Errorf("%w: version %v", ErrIncorrectOutputRootType, output.Version())
	}
	if outputV0.BlockHash != t.Claimed.BlockHash {
		return nil, nil, fmt.Errorf("%w: output root %v commits to block %v but %v was claimed",
			supervisor.ErrConflict, t.Claimed.OutputRoot, outputV0.BlockHash, t.Claimed.BlockHash)
	}
	block, err := r.oracle.BlockByHash(outputV0.BlockHash, t.ChainID)
	if err != nil {
		return nil, nil, err
	}
	if block.Time != r.window {
		return nil, nil, fmt.Errorf("%w: pending block %v has time %d, expected %d",
			supervisor.ErrConflict, block.Hash(), block.Time, r.window)
	}
	messages, err := r.oracle.MessagesByRoot(block.MessagesRoot, t.ChainID)
	if err != nil {
		return nil, nil, err
	}
	return block, messages, nil
}

func (r *resolver) checkExecutingMessage(t *PendingTransition, execBlock *l2.SealedBlock,
	execMessages *l2.BlockMessages, msg *supervisor.ExecutingMessage) error {
	if !r.depSet.HasChain(msg.ChainID) {
		return fmt.Errorf("%w: %v", supervisor.ErrUnknownChain, msg.ChainID)
	}
	if !r.linker.CanExecute(t.ChainID, execBlock.Time, msg.ChainID, msg.Timestamp) {
		expiresAt := safemath.SaturatingAdd(msg.Timestamp, r.depSet.MessageExpiryWindow())
		if msg.Timestamp <= execBlock.Time && expiresAt < execBlock.Time {
			return fmt.Errorf("%w: message %v executed at %d", supervisor.ErrExpired, msg, execBlock.Time)
		}
		return fmt.Errorf("%w: cannot execute message %v at time %d on chain %v",
			supervisor.ErrConflict, msg, execBlock.Time, t.ChainID)
	}
	if msg.Timestamp == r.window && msg.ChainID == t.ChainID {
		// Intra-block reference into the chain's own emitted set.
		return checkInclusion(execBlock, execMessages, msg)
	}
	initBlock, initMessages, err := r.initiatingBlock(msg)
	if err != nil {
		return err
	}
	return checkInclusion(initBlock, initMessages, msg)
}

// initiatingBlock locates the block the message claims to have been emitted
// in. Same-window references resolve against the origin chain's pending
// transition, everything older against its agreed canonical history.
func (r *resolver) initiatingBlock(msg *supervisor.ExecutingMessage) (*l2.SealedBlock, *l2.BlockMessages, error) {
	if msg.Timestamp == r.window {
		origin, ok := r.transitions[msg.ChainID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %v is not part of the transition", supervisor.ErrUnknownChain, msg.ChainID)
		}
		switch origin.Status {
		case StatusInvalid:
			return nil, nil, fmt.Errorf("%w: message %v depends on invalid chain %v",
				supervisor.ErrConflict, msg, msg.ChainID)
		case StatusPending:
			if _, ok := r.visited[visitKey{msg.ChainID, msg.BlockNum}]; ok {
				return nil, nil, fmt.Errorf("%w: chain %v block %d", supervisor.ErrCycle, msg.ChainID, msg.BlockNum)
			}
			return nil, nil, fmt.Errorf("%w: chain %v is still pending", supervisor.ErrFuture, msg.ChainID)
		}
		// Valid chains' pending blocks are part of the canonical post-state.
		block, messages, err := r.pendingBlock(origin)
		if err != nil {
			return nil, nil, err
		}
		return block, messages, nil
	}

	canon, ok := r.canon[msg.ChainID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %v is not part of the transition", supervisor.ErrUnknownChain, msg.ChainID)
	}
	block, err := canon.BlockByNumber(msg.BlockNum)
	if err != nil {
		return nil, nil, err
	}
	messages, err := r.oracle.MessagesByRoot(block.MessagesRoot, msg.ChainID)
	if err != nil {
		return nil, nil, err
	}
	return block, messages, nil
}

// checkInclusion verifies the referenced initiating message actually exists
// in the located block, at the claimed position and with the claimed content.
func checkInclusion(block *l2.SealedBlock, messages *l2.BlockMessages, msg *supervisor.ExecutingMessage) error {
	if block.Number != msg.BlockNum {
		return fmt.Errorf("%w: initiating block has number %d, message %v references %d",
			supervisor.ErrConflict, block.Number, msg, msg.BlockNum)
	}
	if block.Time != msg.Timestamp {
		return fmt.Errorf("%w: initiating block has time %d, message %v references %d",
			supervisor.ErrConflict, block.Time, msg, msg.Timestamp)
	}
	if uint64(msg.LogIdx) >= uint64(len(messages.Initiating)) {
		return fmt.Errorf("%w: block %d emitted %d messages, message %v references nonce %d",
			supervisor.ErrConflict, msg.BlockNum, len(messages.Initiating), msg, msg.LogIdx)
	}
	init := messages.Initiating[msg.LogIdx]
	checksum := supervisor.ChecksumArgs{
		BlockNumber: msg.BlockNum,
		LogIndex:    msg.LogIdx,
		Timestamp:   msg.Timestamp,
		ChainID:     msg.ChainID,
		LogHash:     supervisor.PayloadHashToLogHash(init.PayloadHash, init.Origin),
	}.Checksum()
	if checksum != msg.Checksum {
		return fmt.Errorf("%w: checksum mismatch for message %v", supervisor.ErrConflict, msg)
	}
	return nil
}

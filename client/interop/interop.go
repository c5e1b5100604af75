package interop

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-labs/superfault/client/boot"
	"github.com/opstack-labs/superfault/client/claim"
	interopTypes "github.com/opstack-labs/superfault/client/interop/types"
	"github.com/opstack-labs/superfault/client/l2"
	"github.com/opstack-labs/superfault/eth"
)

// ConsolidateStep is the step at which the pending progress of all chains is
// cross-validated and folded into the next super root. Steps between the
// last chain's derivation and ConsolidateStep are padding.
const ConsolidateStep = 127

var (
	ErrIncorrectOutputRootType = errors.New("incorrect output root type")
	ErrInvalidPrestate         = errors.New("invalid prestate")
	// ErrL1HeadReached is returned by a Deriver when the available L1 data
	// ends before the claimed timestamp is reached.
	ErrL1HeadReached = errors.New("l1 head reached before claimed timestamp")

	InvalidTransition     = []byte("invalid")
	InvalidTransitionHash = crypto.Keccak256Hash(InvalidTransition)
)

// Deriver runs one chain's derivation pipeline from its agreed output root
// up to the block at the claimed timestamp.
type Deriver interface {
	DeriveOptimisticBlock(logger log.Logger, l1Head common.Hash, chainID eth.ChainID,
		agreedOutput eth.Bytes32, claimedTimestamp uint64) (interopTypes.OptimisticBlock, error)
}

// RunInteropProgram executes one super root transition step and classifies
// the disputed claim against the computed post state.
func RunInteropProgram(logger log.Logger, bootInfo *boot.BootInfoInterop, oracle l2.Oracle, deriver Deriver) (claim.Verdict, error) {
	expected, err := stateTransition(logger, bootInfo, oracle, deriver)
	if err != nil {
		return nil, err
	}
	return claim.Classify(logger, bootInfo.Claim, expected), nil
}

// stateTransition computes the correct post-state commitment for the agreed
// prestate, which the claim is judged against.
func stateTransition(logger log.Logger, bootInfo *boot.BootInfoInterop, oracle l2.Oracle, deriver Deriver) (common.Hash, error) {
	if bootInfo.AgreedPrestate == InvalidTransitionHash {
		// Transitions from the invalid state stay invalid.
		return InvalidTransitionHash, nil
	}
	transitionState, err := oracle.TransitionStateByRoot(bootInfo.AgreedPrestate)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid agreed prestate %v: %w", bootInfo.AgreedPrestate, err)
	}
	super, err := eth.UnmarshalSuperRoot(transitionState.SuperRoot)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid super root in prestate %v: %w", bootInfo.AgreedPrestate, err)
	}
	superRoot, ok := super.(*eth.SuperV1)
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: version %v", ErrIncorrectOutputRootType, super.Version())
	}
	if superRoot.Timestamp >= bootInfo.GameTimestamp {
		// The game timestamp does not admit another transition yet.
		logger.Info("No transition possible", "super_timestamp", superRoot.Timestamp, "game_timestamp", bootInfo.GameTimestamp)
		return bootInfo.AgreedPrestate, nil
	}

	step := transitionState.Step
	switch {
	case step < uint64(len(superRoot.Chains)):
		if uint64(len(transitionState.PendingProgress)) != step {
			return common.Hash{}, fmt.Errorf("%w: step %d with %d pending blocks",
				ErrInvalidPrestate, step, len(transitionState.PendingProgress))
		}
		return deriveChainStep(logger, bootInfo, deriver, transitionState, superRoot)
	case step == ConsolidateStep:
		return RunConsolidation(logger, bootInfo, oracle, deriver, transitionState, superRoot)
	case step > ConsolidateStep:
		return common.Hash{}, fmt.Errorf("%w: step %d is past consolidation", ErrInvalidPrestate, step)
	default:
		// Padding step, nothing left to execute.
		next := &interopTypes.TransitionState{
			SuperRoot:       transitionState.SuperRoot,
			PendingProgress: transitionState.PendingProgress,
			Step:            step + 1,
		}
		return next.Hash(), nil
	}
}

// deriveChainStep derives the next chain's optimistic block and appends it
// to the pending progress.
func deriveChainStep(logger log.Logger, bootInfo *boot.BootInfoInterop, deriver Deriver,
	transitionState *interopTypes.TransitionState, superRoot *eth.SuperV1) (common.Hash, error) {
	chain := superRoot.Chains[transitionState.Step]
	logger.Info("Deriving optimistic block", "step", transitionState.Step, "chain", chain.ChainID)
	block, err := deriver.DeriveOptimisticBlock(logger, bootInfo.L1Head, chain.ChainID, chain.Output, superRoot.Timestamp+1)
	if errors.Is(err, ErrL1HeadReached) {
		logger.Warn("Insufficient data to progress chain", "chain", chain.ChainID, "err", err)
		return InvalidTransitionHash, nil
	} else if err != nil {
		return common.Hash{}, fmt.Errorf("failed to derive chain %v: %w", chain.ChainID, err)
	}
	next := &interopTypes.TransitionState{
		SuperRoot:       transitionState.SuperRoot,
		PendingProgress: append(slices.Clone(transitionState.PendingProgress), block),
		Step:            transitionState.Step + 1,
	}
	return next.Hash(), nil
}

package interop

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/opstack-labs/superfault/client/boot"
	interopTypes "github.com/opstack-labs/superfault/client/interop/types"
	"github.com/opstack-labs/superfault/client/l2"
	"github.com/opstack-labs/superfault/eth"
	"github.com/opstack-labs/superfault/supervisor"
)

type TransitionStatus uint8

const (
	StatusPending TransitionStatus = iota
	StatusValid
	StatusInvalid
)

func (s TransitionStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// PendingTransition tracks one chain's claimed transition while the
// consolidation passes drive it to a verdict.
type PendingTransition struct {
	ChainID       eth.ChainID
	PreOutputRoot eth.Bytes32
	Claimed       interopTypes.OptimisticBlock
	Status        TransitionStatus
}

// RunConsolidation cross-validates every chain's pending progress and folds
// the results into the expected post-state commitment. An invalid claim
// folds into the invalid-transition sentinel rather than an error: only
// missing or malformed data fails the run.
func RunConsolidation(logger log.Logger, bootInfo *boot.BootInfoInterop, oracle l2.Oracle, deriver Deriver,
	transitionState *interopTypes.TransitionState, superRoot *eth.SuperV1) (common.Hash, error) {
	depSet, err := bootInfo.Configs.DependencySet()
	if err != nil {
		return common.Hash{}, err
	}
	if len(transitionState.PendingProgress) != len(superRoot.Chains) {
		return common.Hash{}, fmt.Errorf("%w: pending progress covers %d of %d chains",
			ErrInvalidPrestate, len(transitionState.PendingProgress), len(superRoot.Chains))
	}
	transitions := make([]*PendingTransition, 0, len(superRoot.Chains))
	byChain := make(map[eth.ChainID]*PendingTransition, len(superRoot.Chains))
	for i, chain := range superRoot.Chains {
		if !depSet.HasChain(chain.ChainID) {
			return common.Hash{}, fmt.Errorf("%w: chain %v is not in the dependency set", ErrInvalidPrestate, chain.ChainID)
		}
		t := &PendingTransition{
			ChainID:       chain.ChainID,
			PreOutputRoot: chain.Output,
			Claimed:       transitionState.PendingProgress[i],
		}
		transitions = append(transitions, t)
		byChain[chain.ChainID] = t
	}
	resolver, err := newResolver(logger, oracle, depSet, superRoot, byChain)
	if err != nil {
		return common.Hash{}, err
	}

	window := superRoot.Timestamp + 1
	for pass := 1; ; pass++ {
		resolved := 0
		pending := 0
		resolver.beginPass()
		for _, t := range transitions {
			if t.Status != StatusPending {
				continue
			}
			err := resolver.resolveChain(t)
			switch {
			case err == nil:
				derived, dErr := deriver.DeriveOptimisticBlock(logger, bootInfo.L1Head, t.ChainID, t.PreOutputRoot, window)
				if errors.Is(dErr, ErrL1HeadReached) {
					logger.Warn("Claimed chain progress is not derivable from the available data", "chain", t.ChainID, "err", dErr)
					t.Status = StatusInvalid
				} else if dErr != nil {
					return common.Hash{}, fmt.Errorf("failed to derive chain %v: %w", t.ChainID, dErr)
				} else if derived == t.Claimed {
					t.Status = StatusValid
				} else {
					logger.Warn("Derived chain progress does not match claim",
						"chain", t.ChainID, "derived", derived.OutputRoot, "claimed", t.Claimed.OutputRoot)
					t.Status = StatusInvalid
				}
				resolved++
			case errors.Is(err, supervisor.ErrConflict):
				logger.Warn("Chain transition is invalid", "chain", t.ChainID, "err", err)
				t.Status = StatusInvalid
				resolved++
			case errors.Is(err, supervisor.ErrFuture), errors.Is(err, supervisor.ErrUnknownChain):
				logger.Debug("Chain transition is unresolved in this pass", "pass", pass, "chain", t.ChainID, "err", err)
				pending++
			default:
				return common.Hash{}, fmt.Errorf("failed to resolve chain %v: %w", t.ChainID, err)
			}
		}
		if pending == 0 {
			break
		}
		if resolved == 0 {
			// Unresolvable circular dependencies are never valid.
			logger.Warn("Consolidation made no progress", "pass", pass, "pending", pending)
			return InvalidTransitionHash, nil
		}
	}

	consolidated := make([]eth.ChainIDAndOutput, 0, len(transitions))
	for _, t := range transitions {
		if t.Status != StatusValid {
			logger.Info("Chain transition resolved as invalid", "chain", t.ChainID)
			return InvalidTransitionHash, nil
		}
		consolidated = append(consolidated, eth.ChainIDAndOutput{ChainID: t.ChainID, Output: t.Claimed.OutputRoot})
	}
	consolidatedSuper := eth.NewSuperV1(window, consolidated...)
	return common.Hash(eth.SuperRoot(consolidatedSuper)), nil
}

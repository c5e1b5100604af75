package supervisor

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict happens when we know for sure that there is different canonical data.
	// A message check failing with ErrConflict invalidates the chain transition that
	// executed the message, but not the proof run itself.
	ErrConflict = errors.New("conflicting data")
	// ErrFuture happens when data is not yet available: the referenced block is part of
	// the consolidation window currently being resolved, and its chain is still pending.
	ErrFuture = errors.New("future data")
	// ErrUnknownChain is when a chain is unknown, not in the dependency set.
	ErrUnknownChain = errors.New("unknown chain")
	// ErrCycle is when following a dependency re-enters a block already under resolution.
	// It is unresolved data, not a conflict: the no-progress rule decides the verdict.
	ErrCycle = fmt.Errorf("%w: cycle detected", ErrFuture)
	// ErrExpired is when an initiating message is older than the message expiry window.
	ErrExpired = fmt.Errorf("%w: message expired", ErrConflict)
)

package claim

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

var ErrClaimNotValid = errors.New("invalid claim")

// Verdict is the fixed wire encoding of a dispute resolution.
type Verdict []byte

var (
	VerdictAgree    = Verdict("agree")
	VerdictDisagree = Verdict("disagree")
)

func (v Verdict) String() string {
	return string(v)
}

// Classify maps the computed post-state commitment against the disputed
// claim. The computed commitment may itself be the invalid-transition
// sentinel, so a claimant asserting an invalid transition is agreed with
// exactly when the machine also derives the sentinel.
func Classify(logger log.Logger, claimed common.Hash, computed common.Hash) Verdict {
	if claimed == computed {
		logger.Info("Claim is valid", "claim", claimed)
		return VerdictAgree
	}
	logger.Error("Claim is invalid", "claim", claimed, "expected", computed)
	return VerdictDisagree
}

// ValidateClaim turns a disagree verdict into an error for callers that
// treat a successful run as proof of the claim.
func ValidateClaim(logger log.Logger, claimed common.Hash, computed common.Hash) error {
	if string(Classify(logger, claimed, computed)) != string(VerdictAgree) {
		return fmt.Errorf("%w: claim %v actual %v", ErrClaimNotValid, claimed, computed)
	}
	return nil
}

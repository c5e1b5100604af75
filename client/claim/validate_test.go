package claim

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/opstack-labs/superfault/testlog"
)

func TestClassify(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	computed := common.Hash{0xaa}

	require.Equal(t, VerdictAgree, Classify(logger, computed, computed))
	require.Equal(t, VerdictDisagree, Classify(logger, common.Hash{0xbb}, computed))
}

func TestValidateClaim(t *testing.T) {
	logger := testlog.Logger(t, log.LevelInfo)
	computed := common.Hash{0xaa}

	require.NoError(t, ValidateClaim(logger, computed, computed))
	err := ValidateClaim(logger, common.Hash{0xbb}, computed)
	require.ErrorIs(t, err, ErrClaimNotValid)
}

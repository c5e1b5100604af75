package preimage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrPreimageUnavailable is a fatal error: the external channel could not
// supply bytes whose content hash matches the requested key. The proof run
// cannot make progress without the data, so callers must propagate it.
var ErrPreimageUnavailable = errors.New("preimage unavailable")

// Oracle is the typed interface program code fetches preimages through.
type Oracle interface {
	Get(key Key) ([]byte, error)
}

// Hinter sends advisory hints to the external preimage provider.
type Hinter interface {
	Hint(v Hint)
}

// Source is the raw external preimage channel, a strict key-value contract.
type Source interface {
	Get(key common.Hash) ([]byte, error)
}

// HintSource receives encoded hint descriptors.
type HintSource interface {
	Hint(hint string) error
}

// OracleClient implements Oracle on top of a raw Source.
// Every keccak256-keyed response is re-hashed and rejected on mismatch:
// the content check is part of the client, not a trust assumption on the
// channel. Responses are cached; the cache is append-only and shared
// read-only by all resolvers within one proof run.
type OracleClient struct {
	source Source

	mu    sync.RWMutex
	cache map[common.Hash][]byte
}

var _ Oracle = (*OracleClient)(nil)

func NewOracleClient(source Source) *OracleClient {
	return &OracleClient{
		source: source,
		cache:  make(map[common.Hash][]byte),
	}
}

func (c *OracleClient) Get(key Key) ([]byte, error) {
	pk := key.PreimageKey()
	c.mu.RLock()
	data, ok := c.cache[pk]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	data, err := c.source.Get(pk)
	if err != nil {
		// One re-request covers transient channel failures. A second failure
		// is fatal for the run.
		data, err = c.source.Get(pk)
		if err != nil {
			return nil, fmt.Errorf("%w: %v: %v", ErrPreimageUnavailable, pk, err)
		}
	}
	if k, ok := key.(Keccak256Key); ok {
		if crypto.Keccak256Hash(data) != common.Hash(k) {
			return nil, fmt.Errorf("%w: content hash mismatch for %v", ErrPreimageUnavailable, k)
		}
	}

	c.mu.Lock()
	c.cache[pk] = data
	c.mu.Unlock()
	return data, nil
}

// HintWriter implements Hinter on top of a HintSource.
// Failures to deliver a hint are dropped: hinting is advisory and the
// subsequent fetch decides correctness.
type HintWriter struct {
	source HintSource
}

var _ Hinter = (*HintWriter)(nil)

func NewHintWriter(source HintSource) *HintWriter {
	return &HintWriter{source: source}
}

func (w *HintWriter) Hint(v Hint) {
	_ = w.source.Hint(v.Hint())
}

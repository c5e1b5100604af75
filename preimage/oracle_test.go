package preimage

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	data     map[common.Hash][]byte
	failures map[common.Hash]int
	requests map[common.Hash]int
}

func newStubSource() *stubSource {
	return &stubSource{
		data:     make(map[common.Hash][]byte),
		failures: make(map[common.Hash]int),
		requests: make(map[common.Hash]int),
	}
}

func (s *stubSource) add(key Key, value []byte) {
	s.data[key.PreimageKey()] = value
}

func (s *stubSource) Get(key common.Hash) ([]byte, error) {
	s.requests[key]++
	if s.failures[key] > 0 {
		s.failures[key]--
		return nil, errors.New("transient failure")
	}
	value, ok := s.data[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return value, nil
}

func TestOracleClient_Get(t *testing.T) {
	value := []byte("preimage value")
	key := Keccak256Key(crypto.Keccak256Hash(value))

	t.Run("Valid", func(t *testing.T) {
		source := newStubSource()
		source.add(key, value)
		client := NewOracleClient(source)
		actual, err := client.Get(key)
		require.NoError(t, err)
		require.Equal(t, value, actual)
	})

	t.Run("CachedAfterFirstFetch", func(t *testing.T) {
		source := newStubSource()
		source.add(key, value)
		client := NewOracleClient(source)
		_, err := client.Get(key)
		require.NoError(t, err)
		_, err = client.Get(key)
		require.NoError(t, err)
		require.Equal(t, 1, source.requests[key.PreimageKey()])
	})

	t.Run("RetriesOnceOnTransientFailure", func(t *testing.T) {
		source := newStubSource()
		source.add(key, value)
		source.failures[key.PreimageKey()] = 1
		client := NewOracleClient(source)
		actual, err := client.Get(key)
		require.NoError(t, err)
		require.Equal(t, value, actual)
		require.Equal(t, 2, source.requests[key.PreimageKey()])
	})

	t.Run("SecondFailureIsFatal", func(t *testing.T) {
		source := newStubSource()
		source.add(key, value)
		source.failures[key.PreimageKey()] = 2
		client := NewOracleClient(source)
		_, err := client.Get(key)
		require.ErrorIs(t, err, ErrPreimageUnavailable)
	})

	t.Run("RejectsContentHashMismatch", func(t *testing.T) {
		source := newStubSource()
		source.data[key.PreimageKey()] = []byte("different value")
		client := NewOracleClient(source)
		_, err := client.Get(key)
		require.ErrorIs(t, err, ErrPreimageUnavailable)
	})

	t.Run("LocalKeysNotContentChecked", func(t *testing.T) {
		source := newStubSource()
		localKey := LocalIndexKey(3)
		source.add(localKey, []byte{0xab})
		client := NewOracleClient(source)
		actual, err := client.Get(localKey)
		require.NoError(t, err)
		require.Equal(t, []byte{0xab}, actual)
	})
}

func TestKeyEncodings(t *testing.T) {
	hash := crypto.Keccak256Hash([]byte("value"))
	keccakKey := Keccak256Key(hash).PreimageKey()
	require.Equal(t, byte(Keccak256KeyType), keccakKey[0])
	require.Equal(t, hash[1:], keccakKey[1:])

	localKey := LocalIndexKey(7).PreimageKey()
	require.Equal(t, byte(LocalKeyType), localKey[0])
	require.Equal(t, byte(7), localKey[31])
}

type recordingHintSource struct {
	hints []string
}

func (s *recordingHintSource) Hint(hint string) error {
	s.hints = append(s.hints, hint)
	return errors.New("hint channel down")
}

type testHint string

func (h testHint) Hint() string { return string(h) }

func TestHintWriter_IgnoresDeliveryFailure(t *testing.T) {
	source := &recordingHintSource{}
	writer := NewHintWriter(source)
	writer.Hint(testHint("block 0x1234"))
	require.Equal(t, []string{"block 0x1234"}, source.hints)
}

package depset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/opstack-labs/superfault/eth"
)

// DefaultMessageExpiryWindow is the protocol default for the maximum age of
// an initiating message, in seconds.
const DefaultMessageExpiryWindow = 180 * 24 * 60 * 60

type StaticConfigDependency struct {
}

// StaticConfigDependencySet statically declares a DependencySet.
type StaticConfigDependencySet struct {
	// dependency info per chain
	dependencies map[eth.ChainID]*StaticConfigDependency
	// cached list of chain IDs, sorted by ID value
	chainIDs []eth.ChainID
	// overrideMessageExpiryWindow is the message expiry window to use for this dependency set
	overrideMessageExpiryWindow uint64
}

var _ DependencySet = (*StaticConfigDependencySet)(nil)

func NewStaticConfigDependencySet(dependencies map[eth.ChainID]*StaticConfigDependency) (*StaticConfigDependencySet, error) {
	out := &StaticConfigDependencySet{dependencies: dependencies}
	if err := out.hydrate(); err != nil {
		return nil, err
	}
	return out, nil
}

// NewStaticConfigDependencySetWithMessageExpiryOverride creates a new StaticConfigDependencySet
// with a message expiry window override. To be used only for testing.
func NewStaticConfigDependencySetWithMessageExpiryOverride(dependencies map[eth.ChainID]*StaticConfigDependency, overrideMessageExpiryWindow uint64) (*StaticConfigDependencySet, error) {
	out := &StaticConfigDependencySet{dependencies: dependencies, overrideMessageExpiryWindow: overrideMessageExpiryWindow}
	if err := out.hydrate(); err != nil {
		return nil, err
	}
	return out, nil
}

// minStaticConfigDependencySet is a util for JSON/TOML encoding/decoding,
// for just the minimal set of attributes that matter,
// while wrapping the decoding functionality with additional hydration step.
type minStaticConfigDependencySet struct {
	Dependencies                map[string]*StaticConfigDependency `json:"dependencies" toml:"dependencies"`
	OverrideMessageExpiryWindow uint64                             `json:"overrideMessageExpiryWindow,omitempty" toml:"override_message_expiry_window,omitempty"`
}

func (ds *StaticConfigDependencySet) MarshalJSON() ([]byte, error) {
	stringMap := make(map[string]*StaticConfigDependency, len(ds.dependencies))
	for id, dep := range ds.dependencies {
		stringMap[id.String()] = dep
	}

	out := &minStaticConfigDependencySet{
		Dependencies:                stringMap,
		OverrideMessageExpiryWindow: ds.overrideMessageExpiryWindow,
	}
	return json.Marshal(out)
}

func (ds *StaticConfigDependencySet) UnmarshalJSON(data []byte) error {
	var v minStaticConfigDependencySet
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := ds.fromMin(&v); err != nil {
		return err
	}
	return ds.hydrate()
}

func (ds *StaticConfigDependencySet) MarshalTOML() ([]byte, error) {
	stringMap := make(map[string]*StaticConfigDependency, len(ds.dependencies))
	for id, dep := range ds.dependencies {
		stringMap[id.String()] = dep
	}

	payload := &minStaticConfigDependencySet{
		Dependencies:                stringMap,
		OverrideMessageExpiryWindow: ds.overrideMessageExpiryWindow,
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (ds *StaticConfigDependencySet) UnmarshalTOML(data []byte) error {
	var v minStaticConfigDependencySet
	if err := toml.Unmarshal(data, &v); err != nil {
		return err
	}
	if err := ds.fromMin(&v); err != nil {
		return err
	}
	return ds.hydrate()
}

func (ds *StaticConfigDependencySet) fromMin(v *minStaticConfigDependencySet) error {
	ds.dependencies = make(map[eth.ChainID]*StaticConfigDependency, len(v.Dependencies))
	for idStr, dep := range v.Dependencies {
		id, err := eth.ParseDecimalChainID(idStr)
		if err != nil {
			return fmt.Errorf("invalid chain ID in dependency set: %w", err)
		}
		ds.dependencies[id] = dep
	}
	ds.overrideMessageExpiryWindow = v.OverrideMessageExpiryWindow
	return nil
}

// hydrate sets all the cached values, based on the dependencies attribute
func (ds *StaticConfigDependencySet) hydrate() error {
	ds.chainIDs = make([]eth.ChainID, 0, len(ds.dependencies))
	for id := range ds.dependencies {
		ds.chainIDs = append(ds.chainIDs, id)
	}
	sort.Slice(ds.chainIDs, func(i, j int) bool {
		return ds.chainIDs[i].Cmp(ds.chainIDs[j]) < 0
	})
	return nil
}

func (ds *StaticConfigDependencySet) Chains() []eth.ChainID {
	return ds.chainIDs
}

func (ds *StaticConfigDependencySet) HasChain(chainID eth.ChainID) bool {
	_, ok := ds.dependencies[chainID]
	return ok
}

func (ds *StaticConfigDependencySet) MessageExpiryWindow() uint64 {
	if ds.overrideMessageExpiryWindow == 0 {
		return DefaultMessageExpiryWindow
	}
	return ds.overrideMessageExpiryWindow
}

// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate

import "sort"

// EngineSet groups the Checkers for every deployment a host cares about,
// keyed by a caller-chosen deployment id (an agenda name, a BIP number
// rendered as a string, whatever the host's parameter table uses). It adds
// the tip-tracking convenience operations the original C++ implementation
// layers on top of its core (VersionBitsTipState and friends) without
// folding "current best chain" into the core engine itself.
type EngineSet struct {
	checkers map[string]*Checker
}

// NewEngineSet returns an empty EngineSet.
func NewEngineSet() *EngineSet {
	return &EngineSet{checkers: make(map[string]*Checker)}
}

// Add registers a deployment under id, constructing its Checker. It panics
// with AssertError if params is invalid, or if id is already registered
// with different parameters (a fresh registration with identical
// parameters is a harmless no-op, matching the cache's own
// overwrite-must-be-identical discipline).
func (s *EngineSet) Add(id string, params Params) *Checker {
	if existing, ok := s.checkers[id]; ok {
		if existing.params != params {
			assertf("deployment %q already registered with different parameters", id)
		}
		return existing
	}
	c := NewChecker(params)
	s.checkers[id] = c
	return c
}

// Checker returns the Checker registered under id, or an
// ErrUnknownDeployment error.
func (s *EngineSet) Checker(id string) (*Checker, error) {
	c, ok := s.checkers[id]
	if !ok {
		return nil, unknownDeploymentError(id)
	}
	return c, nil
}

// IDs returns every registered deployment id in sorted order.
func (s *EngineSet) IDs() []string {
	ids := make([]string, 0, len(s.checkers))
	for id := range s.checkers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear drops the cached state of every registered deployment, used by
// hosts that want to force a full recomputation, e.g. after a parameter
// table reload.
func (s *EngineSet) Clear() {
	for _, c := range s.checkers {
		c.Cache().Clear()
	}
}

// StateForTip is StateFor against the id'd deployment. See StateFor for the
// semantics of tip.
func (s *EngineSet) StateForTip(id string, tip Node) (State, error) {
	c, err := s.Checker(id)
	if err != nil {
		return Invalid, err
	}
	return c.StateFor(tip), nil
}

// StateSinceHeightForTip is StateSinceHeightFor against the id'd
// deployment.
func (s *EngineSet) StateSinceHeightForTip(id string, tip Node) (int64, error) {
	c, err := s.Checker(id)
	if err != nil {
		return 0, err
	}
	return c.StateSinceHeightFor(tip), nil
}

// StatisticsForTip is StatisticsFor against the id'd deployment.
func (s *EngineSet) StatisticsForTip(id string, block Node) (Stats, error) {
	c, err := s.Checker(id)
	if err != nil {
		return Stats{}, err
	}
	return c.StatisticsFor(block), nil
}

// ComputeBlockVersion returns the version word a miner should use for the
// block whose parent is tip: TopBits with the signalling bit of every
// registered deployment currently Started or MustSignal also set. This is
// a convenience layered on top of the core rather than part of it, the same
// way the core's own mask is a thin helper rather than a core operation in
// its own right.
func (s *EngineSet) ComputeBlockVersion(tip Node) int32 {
	version := TopBits
	for _, c := range s.checkers {
		switch c.StateFor(tip) {
		case Started, MustSignal:
			version |= c.Params().Mask()
		}
	}
	return int32(version)
}

// UnknownBitsSignalling reports, for the Period blocks ending at tip, which
// version bits outside knownMask were set on a top-bits-conforming block and
// how many times each was seen. It is a detection primitive only, with no
// presentation policy attached: what a host does with the result (log it,
// alert an operator, ignore it) is left entirely to the host.
func UnknownBitsSignalling(tip Node, period int64, knownMask uint32) (bits []uint8, counts []int64) {
	if period <= 0 {
		assertf("period %d is not greater than zero", period)
	}

	var seen [NumBits]int64
	n := tip
	for i := int64(0); i < period && n != nil; i++ {
		v := uint32(n.Version())
		if v&TopMask == TopBits {
			for b := uint8(0); b < NumBits; b++ {
				bit := uint32(1) << b
				if knownMask&bit != 0 {
					continue
				}
				if v&bit != 0 {
					seen[b]++
				}
			}
		}
		n = n.Parent()
	}

	for b := uint8(0); b < NumBits; b++ {
		if seen[b] > 0 {
			bits = append(bits, b)
			counts = append(counts, seen[b])
		}
	}
	return bits, counts
}

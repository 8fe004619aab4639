// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate

import "github.com/decred/dcrd/chaincfg/chainhash"

// Node is the chain index collaborator the engine is evaluated against.  A
// host supplies a concrete implementation backed by however it stores block
// metadata; the engine never mutates a Node and never looks past the fields
// below.
//
// A nil Node is the special representative ⊥, the "parent of genesis",
// which is DEFINED by definition and has no height, version, or parent of
// its own.
type Node interface {
	// Height returns the node's non-negative height.
	Height() int64

	// Version returns the node's 32-bit block version word.
	Version() int32

	// Hash returns the node's block identity, used only for logging and
	// for reporting results; it plays no role in the state derivation
	// itself.
	Hash() chainhash.Hash

	// Parent returns the immediate parent, or nil for the genesis block.
	Parent() Node

	// Ancestor returns the unique ancestor at the given height, or nil if
	// height is negative or greater than Height(). Implementations are
	// expected to answer in O(log n), e.g. via a skip list.
	Ancestor(height int64) Node
}

// These sentinels select the two degenerate deployment kinds.  Both are
// chosen well outside the range of any real height so that the normal
// integer comparisons used throughout the engine continue to hold a total
// order: NeverActive < AlwaysActive < 0 <= every real height.
const (
	// NeverActive marks a deployment that can never leave Defined. It is
	// valid as either StartHeight or TimeoutHeight.
	NeverActive int64 = -1 << 62

	// AlwaysActive marks a deployment that is Active for every block,
	// including the parent of genesis. It is only valid as StartHeight.
	AlwaysActive int64 = NeverActive + 1
)

// Params holds the configuration of a single deployment.  The zero value is
// not valid; construct one with NewChecker, which validates the fatal
// parameter invariants below and panics with AssertError if they are
// violated.
type Params struct {
	// StartHeight is the first height eligible to leave Defined, or one of
	// the AlwaysActive/NeverActive sentinels.
	StartHeight int64

	// TimeoutHeight is the deadline after which a non-locked-in
	// deployment fails, or NeverActive.
	TimeoutHeight int64

	// MinActivationHeight is the earliest height at which LockedIn may
	// become Active.
	MinActivationHeight int64

	// Period is the number of blocks per evaluation window.
	Period int64

	// Threshold is the number of signalling blocks per period required to
	// lock in.
	Threshold int64

	// LockinOnTimeout, when true, forces one MustSignal period
	// immediately before TimeoutHeight instead of failing outright.
	LockinOnTimeout bool

	// Bit is the version-bits signalling bit assigned to this deployment.
	Bit uint8
}

// alwaysActive reports whether the deployment is always-active.
func (p Params) alwaysActive() bool {
	return p.StartHeight == AlwaysActive
}

// neverActive reports whether the deployment is never-active.
func (p Params) neverActive() bool {
	return p.StartHeight == NeverActive && p.TimeoutHeight == NeverActive
}

// validate panics with AssertError if any of the fatal parameter invariants
// (a positive period, a threshold within [0, period], a bit within range,
// a non-negative minimum activation height) are violated.
func (p Params) validate() {
	if p.Period <= 0 {
		assertf("period %d is not greater than zero", p.Period)
	}
	if p.Threshold < 0 || p.Threshold > p.Period {
		assertf("threshold %d is not within [0, period=%d]", p.Threshold, p.Period)
	}
	if p.Bit >= NumBits {
		assertf("bit %d is not less than NumBits (%d)", p.Bit, NumBits)
	}
	if p.MinActivationHeight < 0 {
		assertf("min activation height %d is negative", p.MinActivationHeight)
	}
}

// Mask returns the 32-bit word with a single bit set at this deployment's
// signalling bit.
func (p Params) Mask() uint32 {
	return Mask(p.Bit)
}

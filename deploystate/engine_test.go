// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate_test

import (
	"testing"

	"github.com/chainkit/deploystate/deploystate"
	"github.com/chainkit/deploystate/internal/chaingen"
)

// testParams returns a small, easy-to-reason-about set of parameters: a
// period of 10 blocks, a threshold of 8, starting at height 10 and timing
// out at height 100, with no minimum activation delay.
func testParams(bit uint8, lockinOnTimeout bool) deploystate.Params {
	return deploystate.Params{
		StartHeight:         10,
		TimeoutHeight:       100,
		MinActivationHeight: 0,
		Period:              10,
		Threshold:           8,
		LockinOnTimeout:     lockinOnTimeout,
		Bit:                 bit,
	}
}

// buildUpTo grows chain to the given height (inclusive) using versionFn to
// pick each new block's version word, and returns the tip.
func buildUpTo(chain *chaingen.Chain, height int64, versionFn func(h int64) int32) deploystate.Node {
	tip := chain.Tip()
	cur := int64(-1)
	if tip != nil {
		cur = tip.Height()
	}
	for cur < height {
		cur++
		tip = chain.Next(versionFn(cur))
	}
	return tip
}

func TestStateForBeforeStart(t *testing.T) {
	t.Parallel()

	c := deploystate.NewChecker(testParams(1, false))
	chain := chaingen.New()

	// Blocks 0..8 (9 blocks) are all before StartHeight=10, so the parent
	// of block 9 (tip at height 8) must still be Defined.
	tip := buildUpTo(chain, 8, func(int64) int32 { return chaingen.NonSignalling() })

	got := c.StateFor(tip)
	if got != deploystate.Defined {
		t.Fatalf("StateFor at height 8 = %v, want %v", got, deploystate.Defined)
	}
}

func TestStateForNilTipIsDefined(t *testing.T) {
	t.Parallel()

	c := deploystate.NewChecker(testParams(1, false))
	got := c.StateFor(nil)
	if got != deploystate.Defined {
		t.Fatalf("StateFor(nil) = %v, want %v", got, deploystate.Defined)
	}
}

func TestStateForAlwaysActive(t *testing.T) {
	t.Parallel()

	p := testParams(1, false)
	p.StartHeight = deploystate.AlwaysActive
	c := deploystate.NewChecker(p)

	if got := c.StateFor(nil); got != deploystate.Active {
		t.Fatalf("StateFor(nil) = %v, want %v", got, deploystate.Active)
	}

	chain := chaingen.New()
	tip := buildUpTo(chain, 5, func(int64) int32 { return chaingen.NonConforming() })
	if got := c.StateFor(tip); got != deploystate.Active {
		t.Fatalf("StateFor at height 5 = %v, want %v", got, deploystate.Active)
	}
}

func TestStateForNeverActive(t *testing.T) {
	t.Parallel()

	p := testParams(1, false)
	p.StartHeight = deploystate.NeverActive
	p.TimeoutHeight = deploystate.NeverActive
	c := deploystate.NewChecker(p)

	chain := chaingen.New()
	tip := buildUpTo(chain, 50, func(h int64) int32 { return chaingen.Signalling(1) })
	if got := c.StateFor(tip); got != deploystate.Defined {
		t.Fatalf("StateFor at height 50 = %v, want %v", got, deploystate.Defined)
	}
}

// TestStateForLockIn walks a chain through Defined -> Started -> LockedIn ->
// Active by signalling above threshold in the first eligible period.
func TestStateForLockIn(t *testing.T) {
	t.Parallel()

	bit := uint8(1)
	c := deploystate.NewChecker(testParams(bit, false))
	chain := chaingen.New()

	// Heights 0..9: pre-start, non-signalling.
	buildUpTo(chain, 9, func(int64) int32 { return chaingen.NonSignalling() })

	// Heights 10..19: the first period after StartHeight. Signal on 9 of
	// the 10 blocks, comfortably above the threshold of 8.
	tip := buildUpTo(chain, 19, func(h int64) int32 {
		if h == 11 {
			return chaingen.NonSignalling()
		}
		return chaingen.Signalling(bit)
	})

	// StateFor(tip) reports the state of tip's child. tip is the last
	// block of the period [10,19], which met the threshold, so the block
	// at height 20 (and hence StateFor(tip)) is already LockedIn.
	if got := c.StateFor(tip); got != deploystate.LockedIn {
		t.Fatalf("StateFor at height 19 = %v, want %v", got, deploystate.LockedIn)
	}

	// The whole of the next period continues to report LockedIn for its
	// child, since the LockedIn -> Active transition only evaluates at
	// that period's own last block.
	tip = chain.Next(chaingen.NonSignalling())
	if got := c.StateFor(tip); got != deploystate.LockedIn {
		t.Fatalf("StateFor at height 20 = %v, want %v", got, deploystate.LockedIn)
	}

	// Fill out the rest of the LockedIn period; the child of its last
	// block must be Active.
	tip = buildUpTo(chain, 29, func(int64) int32 { return chaingen.NonConforming() })
	tip = chain.Next(chaingen.NonConforming())
	if got := c.StateFor(tip); got != deploystate.Active {
		t.Fatalf("StateFor after LockedIn period = %v, want %v", got, deploystate.Active)
	}
}

// TestStateForOrdinaryTimeout checks that a deployment with
// LockinOnTimeout=false simply fails once TimeoutHeight passes without
// reaching threshold.
func TestStateForOrdinaryTimeout(t *testing.T) {
	t.Parallel()

	bit := uint8(2)
	c := deploystate.NewChecker(testParams(bit, false))
	chain := chaingen.New()

	tip := buildUpTo(chain, 89, func(int64) int32 { return chaingen.NonSignalling() })
	if got := c.StateFor(tip); got != deploystate.Started {
		t.Fatalf("StateFor at height 89 = %v, want %v", got, deploystate.Started)
	}

	tip = buildUpTo(chain, 99, func(int64) int32 { return chaingen.NonSignalling() })
	if got := c.StateFor(tip); got != deploystate.Failed {
		t.Fatalf("StateFor at height 99 = %v, want %v", got, deploystate.Failed)
	}
}

// TestStateForLockinOnTimeout checks that a deployment with
// LockinOnTimeout=true passes through exactly one MustSignal period
// immediately before its timeout and then locks in regardless of the
// signalling bit.
func TestStateForLockinOnTimeout(t *testing.T) {
	t.Parallel()

	bit := uint8(3)
	c := deploystate.NewChecker(testParams(bit, true))
	chain := chaingen.New()

	// Never signal; the threshold is never reached by counting alone.
	// The period ending at height 89 evaluates at h=90, and
	// h+Period=100 >= TimeoutHeight=100, so it is forced into MustSignal
	// rather than left to run out the clock.
	tip := buildUpTo(chain, 89, func(int64) int32 { return chaingen.NonSignalling() })
	if got := c.StateFor(tip); got != deploystate.MustSignal {
		t.Fatalf("StateFor at height 89 = %v, want %v", got, deploystate.MustSignal)
	}

	tip = buildUpTo(chain, 99, func(int64) int32 { return chaingen.NonSignalling() })
	if got := c.StateFor(tip); got != deploystate.LockedIn {
		t.Fatalf("StateFor at height 99 = %v, want %v", got, deploystate.LockedIn)
	}
}

// TestStateForMonotone walks a chain one block at a time and asserts the
// derived state is never reached before the prior block's, and that no
// backward transition is ever observed.
func TestStateForMonotone(t *testing.T) {
	t.Parallel()

	bit := uint8(4)
	c := deploystate.NewChecker(testParams(bit, true))
	chain := chaingen.New()

	order := map[deploystate.State]int{
		deploystate.Defined:    0,
		deploystate.Started:    1,
		deploystate.MustSignal: 2,
		deploystate.LockedIn:   3,
		deploystate.Active:     4,
		deploystate.Failed:     2,
	}

	prev := deploystate.Defined
	for h := int64(0); h <= 140; h++ {
		var version int32
		switch {
		case h >= 50 && h < 60:
			version = chaingen.Signalling(bit)
		default:
			version = chaingen.NonSignalling()
		}
		tip := chain.Next(version)
		got := c.StateFor(tip.Parent())
		if order[got] < order[prev] {
			t.Fatalf("height %d: state regressed from %v to %v", h, prev, got)
		}
		prev = got
	}
}

// TestStateForRepresentativeIndependence checks that StateFor produces the
// same answer for every block that aligns to the same period representative,
// since the engine only ever evaluates representatives and a cached answer
// is shared by every block that maps to it.
func TestStateForRepresentativeIndependence(t *testing.T) {
	t.Parallel()

	bit := uint8(5)
	c := deploystate.NewChecker(testParams(bit, false))
	chain := chaingen.New()

	buildUpTo(chain, 29, func(h int64) int32 {
		if h >= 10 && h < 20 {
			return chaingen.Signalling(bit)
		}
		return chaingen.NonSignalling()
	})

	var blocks []deploystate.Node
	n := chain.Tip()
	for n != nil {
		blocks = append(blocks, n)
		n = n.Parent()
	}

	// Heights 19 through 28 all share the period representative at
	// height 19 (representatives are the blocks whose height is
	// congruent to Period-1, here 9, mod Period), so StateFor must agree
	// across all of them.
	var want deploystate.State
	seen := 0
	for _, b := range blocks {
		if b.Height() < 19 || b.Height() > 28 {
			continue
		}
		got := c.StateFor(b)
		if seen == 0 {
			want = got
		} else if got != want {
			t.Fatalf("height %d: StateFor = %v, want %v (period-mate mismatch)", b.Height(), got, want)
		}
		seen++
	}
	if seen != 10 {
		t.Fatalf("expected 10 period-mates, saw %d", seen)
	}
}

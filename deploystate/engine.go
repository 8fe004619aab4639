// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate

// Checker binds a single deployment's parameters to a Period Cache. A
// Checker is safe for concurrent reads only if its cache is externally
// synchronised; the core itself performs no locking.
//
// The zero value is not valid; construct one with NewChecker or
// NewCheckerWithCache.
type Checker struct {
	params Params
	cache  *PeriodCache
}

// NewChecker returns a Checker for the given parameters backed by a fresh,
// empty PeriodCache.  It panics with AssertError if params violates any of
// its parameter invariants.
func NewChecker(params Params) *Checker {
	params.validate()
	return &Checker{params: params, cache: NewPeriodCache(defaultCacheLimit)}
}

// NewCheckerWithCache is like NewChecker but lets the caller supply (and
// thereby share or pre-seed) the PeriodCache. Each deployment still needs
// its own cache; sharing one PeriodCache between two deployments with
// different parameters will trip the cache's monotonicity assertion the
// first time their representatives disagree.
func NewCheckerWithCache(params Params, cache *PeriodCache) *Checker {
	params.validate()
	return &Checker{params: params, cache: cache}
}

// Params returns the deployment's configuration.
func (c *Checker) Params() Params { return c.params }

// Cache returns the checker's Period Cache.
func (c *Checker) Cache() *PeriodCache { return c.cache }

// repr returns the period representative of n: the ancestor of n at the
// last height of n's own period, or ⊥ if n is ⊥ or that ancestor does not
// exist.
func repr(n Node, period int64) Node {
	if n == nil {
		return nil
	}
	h := n.Height()
	return n.Ancestor(h - ((h + 1) % period))
}

// relativeAncestor returns the ancestor distance blocks before n, or ⊥ if
// no such ancestor exists.
func relativeAncestor(n Node, distance int64) Node {
	if n == nil {
		return nil
	}
	h := n.Height() - distance
	if h < 0 {
		return nil
	}
	return n.Ancestor(h)
}

// countSignalling returns the number of the Period blocks ending at (and
// including) rep for which the deployment's bit signals.
func (c *Checker) countSignalling(rep Node) int64 {
	var count int64
	n := rep
	for i := int64(0); i < c.params.Period && n != nil; i++ {
		if signals(n.Version(), c.params.Bit) {
			count++
		}
		n = n.Parent()
	}
	return count
}

// StateFor returns the state applicable to the block whose parent is tip.
// tip may be nil to denote ⊥, the parent of the genesis block.
//
// An always-active or never-active deployment short-circuits immediately;
// otherwise tip is
// aligned to its period representative, the engine walks backward in steps
// of Period blocks until it finds a cached or otherwise known base state,
// then walks forward applying the transition table once per period,
// caching every newly derived state as it goes. Both walks are iterative by
// construction, never recursive, so cost is bounded by chain height
// regardless of how deep the uncached tail of the chain is.
func (c *Checker) StateFor(tip Node) State {
	p := c.params
	if p.neverActive() {
		return Defined
	}
	if p.alwaysActive() {
		return Active
	}

	aligned := repr(tip, p.Period)

	var stack []Node
	node := aligned
	var base State
	for {
		if node == nil {
			c.cache.Update(nil, Defined)
			base = Defined
			break
		}
		if cached, ok := c.cache.Lookup(node); ok {
			base = cached
			break
		}
		if node.Height()+1 < p.StartHeight {
			c.cache.Update(node, Defined)
			base = Defined
			break
		}
		stack = append(stack, node)
		node = relativeAncestor(node, p.Period)
	}

	state := base
	for i := len(stack) - 1; i >= 0; i-- {
		rep := stack[i]
		h := rep.Height() + 1
		state = c.transition(state, rep, h)
		c.cache.Update(rep, state)
		log.Debugf("bit %d: period ending at height %d moved to state %v",
			p.Bit, rep.Height(), state)
	}
	return state
}

// transition computes the next state given the current state, the period
// representative rep, and h, the height of the first block of the period
// being evaluated (rep.Height()+1).
//
// The three STARTED outgoing checks are evaluated in the order listed below
// — threshold first, then lock-in-on-timeout forcing, then ordinary timeout
// failure — and this ordering must never change even though the last two
// are mutually exclusive at the parameter level: a fuzzer that flips the
// order will find chains for which it matters.
func (c *Checker) transition(state State, rep Node, h int64) State {
	p := c.params
	switch state {
	case Defined:
		if h >= p.StartHeight {
			return Started
		}
		return Defined

	case Started:
		count := c.countSignalling(rep)
		switch {
		case count >= p.Threshold:
			return LockedIn
		case p.LockinOnTimeout && h+p.Period >= p.TimeoutHeight:
			return MustSignal
		case h >= p.TimeoutHeight:
			return Failed
		default:
			return Started
		}

	case MustSignal:
		return LockedIn

	case LockedIn:
		if h >= p.MinActivationHeight {
			return Active
		}
		return LockedIn

	default:
		// Active and Failed are terminal; Invalid should never reach here.
		return state
	}
}

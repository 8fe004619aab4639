// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate

import "github.com/decred/dcrd/container/lru"

// defaultCacheLimit bounds the number of period representatives a
// PeriodCache retains.  Since at most one entry is ever created per period
// of each queried branch, a chain of up to 65536 periods (over nine million
// blocks at Period=144, or over 130 million at Period=2016) fits without
// eviction; when eviction does happen the evicted
// representative is simply recomputed by the backward walk in StateFor at
// the cost of one more cold-cache period traversal, never a correctness
// issue.
const defaultCacheLimit = 1 << 16

// PeriodCache memoises State by period-representative Node identity.
// Lookups and updates are append-only per deployment: an update that would
// change the recorded state for a representative that is already cached is
// an AssertError, never a silent overwrite.
//
// The zero value is not valid; use NewPeriodCache.
type PeriodCache struct {
	entries *lru.Map[Node, State]
}

// NewPeriodCache returns an empty cache that retains up to limit period
// representatives before it begins evicting the least recently used entry.
func NewPeriodCache(limit uint32) *PeriodCache {
	return &PeriodCache{entries: lru.NewMap[Node, State](limit)}
}

// Lookup returns the state associated with the given representative along
// with a boolean that indicates whether or not it is cached.
func (c *PeriodCache) Lookup(repr Node) (State, bool) {
	return c.entries.Get(repr)
}

// Update records the state for the given representative.  A representative
// already present in the cache may only be "updated" with the identical
// state it already holds; any other value indicates a consensus-breaking
// bug in the engine and is reported via AssertError rather than silently
// accepted.
func (c *PeriodCache) Update(repr Node, state State) {
	if existing, ok := c.entries.Get(repr); ok {
		if existing != state {
			assertf("cache entry for representative at height %d changed from %v to %v",
				nodeHeight(repr), existing, state)
		}
		return
	}
	c.entries.Put(repr, state)
}

// Clear drops every cached entry.  It is safe to call at any time; the next
// query simply recomputes from scratch.
func (c *PeriodCache) Clear() {
	c.entries.Clear()
}

// nodeHeight returns n's height, or -1 for the ⊥ representative (a nil
// Node), which is convenient for logging and assertion messages that would
// otherwise need to special-case ⊥ themselves.
func nodeHeight(n Node) int64 {
	if n == nil {
		return -1
	}
	return n.Height()
}

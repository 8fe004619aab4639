// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate

// Stats reports intra-period signalling progress for the period a block
// belongs to.  Callers should only rely on it when the applicable state is
// Started or MustSignal; the zero-cost mechanical computation is returned
// unconditionally in every other state rather than rejected, since there is
// no invalid input here to reject.
type Stats struct {
	// Period and Threshold are echoed from the deployment's parameters.
	Period    int64
	Threshold int64

	// Elapsed is the number of blocks of the current period already
	// present up to and including the query block. It is zero when the
	// query block is itself the last block of a period, since the period
	// relevant to the *next* block has not started yet.
	Elapsed int64

	// Count is the number of signalling blocks among the Elapsed blocks.
	Count int64

	// Possible reports whether it is still arithmetically possible for
	// the period to reach Threshold by its end.
	Possible bool
}

// StatisticsFor returns the signalling statistics for the period block
// belongs to. block is the block itself, not the tip whose child is being
// evaluated — contrast with StateFor, which takes the parent.
//
// A nil block denotes ⊥ and always returns the zero-progress, not-possible
// Stats; callers must not treat that as meaning progress is impossible in
// general, only that there is no period to speak of yet.
func (c *Checker) StatisticsFor(block Node) Stats {
	p := c.params
	stats := Stats{Period: p.Period, Threshold: p.Threshold}
	if block == nil {
		return stats
	}

	boundary := repr(block, p.Period)
	boundaryHeight := nodeHeight(boundary)

	stats.Elapsed = block.Height() - boundaryHeight
	n := block
	for n != nil && n.Height() > boundaryHeight {
		if signals(n.Version(), p.Bit) {
			stats.Count++
		}
		n = n.Parent()
	}

	stats.Possible = (p.Period - p.Threshold) >= (stats.Elapsed - stats.Count)
	return stats
}

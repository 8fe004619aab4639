// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package deploystate

// StateSinceHeightFor returns the height of the first block at which the
// state applicable to the block whose parent is tip was first reached. The
// result is always a multiple of Period unless the state is Defined (which
// returns 0) or the deployment is always-active (which also returns 0).
func (c *Checker) StateSinceHeightFor(tip Node) int64 {
	p := c.params
	if p.alwaysActive() {
		return 0
	}

	state := c.StateFor(tip)
	if state == Defined {
		return 0
	}

	aligned := repr(tip, p.Period)
	prior := relativeAncestor(aligned, p.Period)
	for prior != nil && c.StateFor(prior) == state {
		aligned = prior
		prior = relativeAncestor(aligned, p.Period)
	}
	return aligned.Height() + 1
}

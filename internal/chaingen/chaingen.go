// Copyright (c) 2024 The chainkit developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaingen builds synthetic chains of deploystate.Node values for
// use in tests and in the deploystatectl demo command. It is adapted from
// the skip-list ancestor traversal in decred/dcrd's blockchain/blockindex.go
// and decred/dcrd/blockchain/chaingen's role as the project's test chain
// builder, reduced to the handful of fields the engine actually reads:
// height, version, and parent linkage.
package chaingen

import (
	"encoding/binary"

	"github.com/chainkit/deploystate/deploystate"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// node is the package's concrete deploystate.Node implementation.
type node struct {
	parent  *node
	skip    *node
	height  int64
	version int32
	hash    chainhash.Hash
}

// clearLowestOneBit clears the lowest set bit in the passed value.
func clearLowestOneBit(n int64) int64 {
	return n & (n - 1)
}

// calcSkipHeight calculates the height of the ancestor a node links to via
// its skip pointer, following the same deterministic single-level skip list
// construction as decred/dcrd's blockindex.go.
func calcSkipHeight(height int64) int64 {
	if height < 0 {
		return 0
	}
	return clearLowestOneBit(clearLowestOneBit(height))
}

// Height returns the node's height.
func (n *node) Height() int64 { return n.height }

// Version returns the node's version word.
func (n *node) Version() int32 { return n.version }

// Hash returns the node's synthetic block identity.
func (n *node) Hash() chainhash.Hash { return n.hash }

// Parent returns the node's parent, or a true nil deploystate.Node for the
// genesis block.
func (n *node) Parent() deploystate.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Ancestor returns the ancestor at the given height by following the skip
// list, or a true nil deploystate.Node when no such ancestor exists.
func (n *node) Ancestor(height int64) deploystate.Node {
	if height < 0 || height > n.height {
		return nil
	}

	cur := n
	for cur != nil && cur.height != height {
		if cur.skip != nil && calcSkipHeight(cur.height) >= height {
			cur = cur.skip
			continue
		}
		cur = cur.parent
	}
	if cur == nil {
		return nil
	}
	return cur
}

// hashForHeight derives a deterministic, distinct hash per height so test
// chains are reproducible without needing real block contents.
func hashForHeight(height int64) chainhash.Hash {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(height))
	return chainhash.HashH(buf[:])
}

// Chain is an in-memory, append-only sequence of synthetic blocks.
type Chain struct {
	tip *node
}

// New returns an empty Chain whose Tip is ⊥.
func New() *Chain {
	return &Chain{}
}

// Tip returns the current tip, or nil (⊥) for an empty chain.
func (c *Chain) Tip() deploystate.Node {
	if c.tip == nil {
		return nil
	}
	return c.tip
}

// Next appends a single block with the given version word and returns it.
func (c *Chain) Next(version int32) deploystate.Node {
	n := &node{
		parent:  c.tip,
		height:  0,
		version: version,
	}
	if c.tip != nil {
		n.height = c.tip.height + 1
		if anc := n.parent.Ancestor(calcSkipHeight(n.height)); anc != nil {
			n.skip = anc.(*node)
		}
	}
	n.hash = hashForHeight(n.height)
	c.tip = n
	return n
}

// NextN appends count blocks, each using the version word versionFn returns
// for its (zero-based, relative to this call) index, and returns the new
// tip.
func (c *Chain) NextN(count int, versionFn func(i int) int32) deploystate.Node {
	for i := 0; i < count; i++ {
		c.Next(versionFn(i))
	}
	return c.Tip()
}

// Repeat appends count blocks that all use the same version word.
func (c *Chain) Repeat(count int, version int32) deploystate.Node {
	return c.NextN(count, func(int) int32 { return version })
}

// Signalling returns the version word a block must carry to signal for the
// given deployment bit.
func Signalling(bit uint8) int32 {
	return int32(deploystate.TopBits | deploystate.Mask(bit))
}

// NonSignalling returns a version word that conforms to the top-bits
// signalling scheme but signals for no deployment bit.
func NonSignalling() int32 {
	return int32(deploystate.TopBits)
}

// NonConforming returns a version word that does not conform to the
// top-bits signalling scheme at all, and therefore never signals for any
// deployment regardless of which low bits happen to be set.
func NonConforming() int32 {
	return 0
}

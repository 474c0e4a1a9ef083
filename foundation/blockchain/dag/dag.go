// Package dag maintains the append-only set of verified blocks and the
// parent to child links between them. Blocks live in a flat slice with
// children recorded as indices into that slice, and a hash map provides
// content-addressed lookup. Cycles can't form: a link would require a
// SHA-256 preimage collision.
package dag

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/votechain/votechain/foundation/blockchain/block"
)

// Index identifies an attached block inside the DAG.
type Index int

// Root is the index of the genesis block every DAG starts from.
const Root Index = 0

// attached is a block stored with its content hash and the indices of the
// blocks that chain off it. The hash is computed once on attach.
type attached struct {
	blk      block.Block
	hash     common.Hash
	children []Index
}

// DAG is the append-only graph of attached blocks.
type DAG struct {
	blocks []attached
	index  map[common.Hash]Index
}

// New constructs a DAG rooted at the specified genesis block.
func New(genesis block.Block) *DAG {
	d := DAG{
		blocks: []attached{{blk: genesis, hash: genesis.Hash()}},
		index:  make(map[common.Hash]Index),
	}
	d.index[d.blocks[Root].hash] = Root

	return &d
}

// Attach adds a verified block to the DAG. It reports whether the block is
// now attached: a duplicate counts as attached, a block whose parent is
// unknown does not and leaves the DAG unchanged.
func (d *DAG) Attach(b block.Block) bool {
	hash := b.Hash()
	if _, exists := d.index[hash]; exists {
		return true
	}

	parent, exists := d.index[b.PrevHash]
	if !exists {
		return false
	}

	d.blocks = append(d.blocks, attached{blk: b, hash: hash})
	idx := Index(len(d.blocks) - 1)

	d.blocks[parent].children = append(d.blocks[parent].children, idx)
	d.index[hash] = idx

	return true
}

// Contains reports whether a block with the specified hash is attached.
func (d *DAG) Contains(hash common.Hash) bool {
	_, exists := d.index[hash]
	return exists
}

// ByHash returns the index of the attached block with the specified hash.
func (d *DAG) ByHash(hash common.Hash) (Index, bool) {
	idx, exists := d.index[hash]
	return idx, exists
}

// BlockAt returns a copy of the block at the specified index.
func (d *DAG) BlockAt(idx Index) block.Block {
	return d.blocks[idx].blk
}

// HashAt returns the content hash of the block at the specified index.
func (d *DAG) HashAt(idx Index) common.Hash {
	return d.blocks[idx].hash
}

// Children returns the indices of the blocks chained off the specified block.
func (d *DAG) Children(idx Index) []Index {
	return d.blocks[idx].children
}

// Len returns the number of attached blocks.
func (d *DAG) Len() int {
	return len(d.blocks)
}

// =============================================================================

// subtree carries the result of a longest-chain search below a block.
type subtree struct {
	depth int
	leaf  Index
}

// LongestTip returns the leaf of the canonical chain: the deepest leaf
// reachable from the root. Ties break toward the first-inserted child, so
// the block a node saw first keeps its slot.
func (d *DAG) LongestTip() Index {
	return d.findLongest(Root, 0).leaf
}

// Depth returns the length of the canonical chain, not counting the root.
func (d *DAG) Depth() int {
	return d.findLongest(Root, 0).depth
}

func (d *DAG) findLongest(idx Index, depth int) subtree {
	children := d.blocks[idx].children
	if len(children) == 0 {
		return subtree{depth: depth, leaf: idx}
	}

	best := subtree{depth: -1}
	for _, child := range children {
		if s := d.findLongest(child, depth+1); s.depth > best.depth {
			best = s
		}
	}

	return best
}

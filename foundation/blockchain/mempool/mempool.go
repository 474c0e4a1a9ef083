// Package mempool maintains the uncommitted block state for a node: the
// staging block accumulating incoming votes, the queue of full blocks
// waiting for proof of work, and the pool of orphan blocks waiting for
// their parent to arrive.
package mempool

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/votechain/votechain/foundation/blockchain/block"
)

// queued is a full block waiting for a nonce. The replaced flag is set when
// a competing block with the same parent gets attached first; sealing a
// replaced block would only create a losing fork.
type queued struct {
	blk      block.Block
	replaced bool
}

// Mempool represents the staging, sealing and orphan state for a node.
type Mempool struct {
	mu      sync.Mutex
	staging *block.Block
	queue   []queued
	pending []block.Block
}

// New constructs an empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// =============================================================================
// Voting staging

// Act applies a vote to the staging block. When no block is being staged, a
// new one is started chained to the parent hash produced by the tip
// function; the parent is chosen at staging start, not seal time. When the
// vote fills the block, it is promoted to the proof of work queue and Act
// reports true.
func (mp *Mempool) Act(a block.Action, tip func() common.Hash) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.staging == nil {
		mp.staging = &block.Block{PrevHash: tip()}
	}

	mp.staging.Act(a)

	if !mp.staging.IsFull() {
		return false
	}

	mp.queue = append(mp.queue, queued{blk: *mp.staging})
	mp.staging = nil

	return true
}

// StagingCount returns the number of votes in the staging block.
func (mp *Mempool) StagingCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.staging == nil {
		return 0
	}
	return int(mp.staging.CountVotes)
}

// =============================================================================
// Proof of work queue

// QueueCount returns the number of blocks waiting to be sealed.
func (mp *Mempool) QueueCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return len(mp.queue)
}

// MarkReplaced flags every queued block chained to the specified parent.
// Called when a block with that parent becomes attached; the flagged blocks
// lost the race for that slot.
func (mp *Mempool) MarkReplaced(parent common.Hash) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var marked int
	for i := range mp.queue {
		if mp.queue[i].blk.PrevHash == parent && !mp.queue[i].replaced {
			mp.queue[i].replaced = true
			marked++
		}
	}

	return marked
}

// DiscardReplaced drops replaced blocks from the front of the queue and
// returns how many were dropped.
func (mp *Mempool) DiscardReplaced() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var dropped int
	for len(mp.queue) > 0 && mp.queue[0].replaced {
		mp.queue = mp.queue[1:]
		dropped++
	}

	return dropped
}

// Front returns a copy of the next block to seal.
func (mp *Mempool) Front() (block.Block, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if len(mp.queue) == 0 {
		return block.Block{}, false
	}

	return mp.queue[0].blk, true
}

// PopFront removes the front of the queue after a successful seal.
func (mp *Mempool) PopFront() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if len(mp.queue) > 0 {
		mp.queue = mp.queue[1:]
	}
}

// =============================================================================
// Pending orphans

// AddPending stores a verified block whose parent is not yet attached.
func (mp *Mempool) AddPending(b block.Block) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pending = append(mp.pending, b)
}

// PendingCount returns the number of orphans waiting for a parent.
func (mp *Mempool) PendingCount() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	return len(mp.pending)
}

// ContainsPending reports whether an orphan with the specified hash is
// already waiting. Used for duplicate suppression alongside the DAG lookup.
func (mp *Mempool) ContainsPending(hash common.Hash) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, b := range mp.pending {
		if b.Hash() == hash {
			return true
		}
	}

	return false
}

// Reconcile repeatedly attempts to attach pending orphans until a full pass
// makes no progress. One orphan can be the parent of another, so a single
// pass isn't enough. The attach function must not call back into the
// mempool; Reconcile returns the blocks that attached so the caller can
// follow up on them.
func (mp *Mempool) Reconcile(attach func(block.Block) bool) []block.Block {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var attachedBlocks []block.Block
	for {
		var progressed bool

		remaining := mp.pending[:0]
		for _, b := range mp.pending {
			if attach(b) {
				progressed = true
				attachedBlocks = append(attachedBlocks, b)
				continue
			}
			remaining = append(remaining, b)
		}
		mp.pending = remaining

		if !progressed {
			return attachedBlocks
		}
	}
}

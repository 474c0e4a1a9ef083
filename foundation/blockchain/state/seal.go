package state

import (
	"context"
	"time"

	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/pow"
)

// sealGenesis performs the unbounded proof of work for a node's root block.
// The counter search makes the result identical on every node, giving the
// network a well-known genesis without any exchange.
func sealGenesis(difficulty uint) (block.Block, error) {
	var genesis block.Block
	if err := pow.SealCounter(context.Background(), difficulty, &genesis); err != nil {
		return block.Block{}, err
	}

	return genesis, nil
}

// TrySeal spends up to the specified budget sealing the front of the proof
// of work queue. Replaced blocks are discarded first: a competitor already
// took their slot and sealing them would be wasted work. A timeout is not
// an error; the search resumes on the next loop iteration.
//
// The nonce search runs without holding the state lock. The worker loop is
// the only caller, and the only mutators that can run concurrently append
// votes or blocks behind the queue front, so the front is stable for the
// duration of the search.
func (s *State) TrySeal(budget time.Duration) {
	if dropped := s.mempool.DiscardReplaced(); dropped > 0 {
		s.evHandler("state: seal: discarded %d replaced block(s) unsigned", dropped)
	}

	blk, ok := s.mempool.Front()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	t := time.Now()
	if err := pow.Seal(ctx, s.difficulty, &blk); err != nil {
		s.evHandler("state: seal: out of budget after %v, will resume", time.Since(t).Round(time.Millisecond))
		return
	}

	s.evHandler("state: seal: sealed blk[%s] in %v", blk.Hash(), time.Since(t).Round(time.Millisecond))

	s.commitSealed(blk)
}

// commitSealed publishes a freshly sealed block and attaches it locally.
// The parent is always known here: it was the chain tip when staging began.
func (s *State) commitSealed(blk block.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifySigned(blk)

	if !s.attach(blk) {
		s.evHandler("state: seal: ERROR: sealed block has unknown parent[%s]", blk.PrevHash)
	}

	s.mempool.PopFront()
}

package state

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/votechain/votechain/foundation/blockchain/dag"
)

// BlockInfo is a read-only view of an attached block for introspection.
type BlockInfo struct {
	Hash     common.Hash
	Parent   common.Hash
	Votes    string
	Children int
}

// Tip returns the hash of the canonical chain's leaf.
func (s *State) Tip() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tip()
}

// Depth returns the canonical chain length, not counting the genesis.
func (s *State) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dag.Depth()
}

// BlockCount returns the number of attached blocks.
func (s *State) BlockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dag.Len()
}

// PendingCount returns the number of orphans waiting for a parent.
func (s *State) PendingCount() int {
	return s.mempool.PendingCount()
}

// QueueCount returns the number of blocks waiting to be sealed.
func (s *State) QueueCount() int {
	return s.mempool.QueueCount()
}

// StagingCount returns the number of votes in the staging block.
func (s *State) StagingCount() int {
	return s.mempool.StagingCount()
}

// Blocks returns a view of every attached block in insertion order.
func (s *State) Blocks() []BlockInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]BlockInfo, s.dag.Len())
	for i := range s.dag.Len() {
		idx := dag.Index(i)
		b := s.dag.BlockAt(idx)

		votes := make([]byte, b.CountVotes)
		for j := range int(b.CountVotes) {
			votes[j] = byte(b.Votes[j])
		}

		infos[i] = BlockInfo{
			Hash:     s.dag.HashAt(idx),
			Parent:   b.PrevHash,
			Votes:    string(votes),
			Children: len(s.dag.Children(idx)),
		}
	}

	return infos
}

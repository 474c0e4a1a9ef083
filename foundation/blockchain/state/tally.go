package state

import (
	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/dag"
)

// DefaultWinner is returned when no votes have been committed to the
// canonical chain yet.
const DefaultWinner = block.Action('0')

// Winner tallies the votes along the canonical chain and returns the
// winning ballot with the full tally. Votes on abandoned forks don't
// count; the genesis block carries no votes and is excluded.
func (s *State) Winner() (block.Action, map[block.Action]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var counts [256]int

	for idx := s.dag.LongestTip(); idx != dag.Root; {
		b := s.dag.BlockAt(idx)

		for i := range int(b.CountVotes) {
			counts[b.Votes[i]]++
		}

		parent, exists := s.dag.ByHash(b.PrevHash)
		if !exists {
			// Unreachable on a valid DAG: every non-root block's parent
			// is attached.
			s.evHandler("state: winner: ERROR: parent[%s] missing from index", b.PrevHash)
			break
		}
		idx = parent
	}

	winner := DefaultWinner
	tally := make(map[block.Action]int)
	maxVotes := 0

	for candidate, votes := range counts {
		if votes == 0 {
			continue
		}

		tally[block.Action(candidate)] = votes
		if votes > maxVotes {
			maxVotes = votes
			winner = block.Action(candidate)
		}
	}

	return winner, tally
}

package state

import (
	"os"

	"github.com/votechain/votechain/foundation/blockchain/block"
)

// Act records a locally originated vote and shares it with the network.
// This is the entry point for votes submitted through the API or the act
// file probe; votes arriving as ACT transactions take the same staging
// path without the rebroadcast.
func (s *State) Act(a block.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.act(a)
	s.broadcastAct(a)
}

// act applies a vote to the staging block. Lock must be held.
func (s *State) act(a block.Action) {
	promoted := s.mempool.Act(a, s.tip)
	if promoted {
		s.evHandler("state: act: staging block full, queued for sealing: queue[%d]", s.mempool.QueueCount())
	}
}

// PollActFile checks for an externally dropped act request: a file whose
// first byte is a vote. The file is consumed so the request fires once.
func (s *State) PollActFile() {
	if s.actFile == "" {
		return
	}

	data, err := os.ReadFile(s.actFile)
	if err != nil {
		return
	}
	os.Remove(s.actFile)

	if len(data) == 0 {
		s.evHandler("state: act: ignoring empty act request file")
		return
	}

	vote := block.Action(data[0])
	s.evHandler("state: act: registered need to act with '%c'", vote)

	s.Act(vote)
}

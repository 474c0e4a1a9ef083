package state

import (
	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/dag"
	"github.com/votechain/votechain/foundation/blockchain/wire"
)

// stamp fills in the protocol header for an outbound transaction and
// consumes the next outbound sequence number. Lock must be held.
func (s *State) stamp(t *wire.Transaction) {
	t.Magic = wire.Magic
	t.Channel = s.channel
	t.SeqNo = s.seqNo
	s.seqNo++
}

// broadcastTran stamps and broadcasts a transaction. Delivery is best
// effort; a transport refusal is logged and otherwise ignored. Lock must
// be held.
func (s *State) broadcastTran(t wire.Transaction) {
	s.stamp(&t)

	data, err := t.MarshalBinary()
	if err != nil {
		s.evHandler("state: broadcast: ERROR: marshal %s: %s", t.Type, err)
		return
	}

	if !s.net.Broadcast(data) {
		s.evHandler("state: broadcast: WARNING: transport refused %s", t.Type)
	}
}

// sendTran stamps and sends a transaction to a single peer. Lock must be
// held.
func (s *State) sendTran(t wire.Transaction, addr string) {
	s.stamp(&t)

	data, err := t.MarshalBinary()
	if err != nil {
		s.evHandler("state: send: ERROR: marshal %s: %s", t.Type, err)
		return
	}

	if !s.net.Send(data, addr) {
		s.evHandler("state: send: WARNING: transport refused %s to %s", t.Type, addr)
	}
}

// broadcastDiscover asks every reachable peer to sync us their chain.
func (s *State) broadcastDiscover() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: init: broadcasting DISCOVER")

	s.broadcastTran(wire.Transaction{Type: wire.TypeDiscover})
}

// broadcastAct shares a locally originated vote with the network. Lock must
// be held.
func (s *State) broadcastAct(a block.Action) {
	s.evHandler("state: act: broadcasting act event '%c'", a)

	s.broadcastTran(wire.Transaction{Type: wire.TypeAct, Act: a})
}

// notifySigned announces a freshly sealed block. Lock must be held.
func (s *State) notifySigned(b block.Block) {
	s.evHandler("state: seal: broadcasting newly signed blk[%s]", b.Hash())

	s.broadcastTran(wire.Transaction{Type: wire.TypeNotifySigned, Block: b})
}

// sendSync unicasts the node's entire set of attached blocks to the peer
// that asked with a DISCOVER. Lock must be held.
func (s *State) sendSync(addr string) {
	for i := range s.dag.Len() {
		idx := dag.Index(i)

		s.evHandler("state: sync: sending: %s <- blk[%s]", addr, s.dag.HashAt(idx))
		s.sendTran(wire.Transaction{Type: wire.TypeSync, Block: s.dag.BlockAt(idx)}, addr)
	}
}

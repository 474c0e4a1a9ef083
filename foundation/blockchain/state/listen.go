package state

import (
	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/peer"
	"github.com/votechain/votechain/foundation/blockchain/pow"
	"github.com/votechain/votechain/foundation/blockchain/wire"
)

// Listen drains the transport, dispatching every queued transaction, and
// returns when the transport reports empty.
func (s *State) Listen() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		data, addr, ok := s.net.Receive()
		if !ok {
			return
		}

		var t wire.Transaction
		if err := t.UnmarshalBinary(data); err != nil {
			s.evHandler("state: listen: discarded transaction - malformed from %s: %s", addr, err)
			continue
		}

		s.dispatch(t, addr)
	}
}

// dispatch applies the protocol filters in order, commits the sender's
// sequence number, and hands the transaction to its handler. Lock must
// be held.
func (s *State) dispatch(t wire.Transaction, addr string) {
	sender := peer.New(addr)

	if s.peers.Stale(sender, t.SeqNo) {
		s.evHandler("state: listen: discarded transaction - stale seqno %d from %s, expected %d", t.SeqNo, addr, s.peers.Next(sender))
		return
	}

	if t.Magic != wire.Magic {
		s.evHandler("state: listen: discarded transaction - wrong magic from %s", addr)
		return
	}

	if t.Channel != s.channel {
		s.evHandler("state: listen: discarded transaction - channel %d instead of %d from %s", t.Channel, s.channel, addr)
		return
	}

	s.evHandler("state: listen: received %s (seqno %d, channel %d) from %s", t.Type, t.SeqNo, t.Channel, addr)

	s.peers.Record(sender, t.SeqNo)

	switch t.Type {
	case wire.TypeDiscover:
		s.sendSync(addr)

	case wire.TypeSync, wire.TypeNotifySigned:
		s.receiveBlock(t.Block)

	case wire.TypeAct:
		s.act(t.Act)

	default:
		s.evHandler("state: listen: discarded transaction - unknown type %d from %s", uint16(t.Type), addr)
	}
}

// receiveBlock applies a block received from the network: invalid proof is
// dropped, duplicates are accepted as no-ops, orphans wait in the pending
// pool, everything else attaches. Lock must be held.
func (s *State) receiveBlock(b block.Block) {
	if !pow.Verify(s.difficulty, b) {
		s.evHandler("state: receive: discarding blk[%s] - wrong proof of work", b.Hash())
		return
	}

	hash := b.Hash()
	if s.dag.Contains(hash) || s.mempool.ContainsPending(hash) {
		s.evHandler("state: receive: discarding duplicate blk[%s]", hash)
		return
	}

	if s.attach(b) {
		s.evHandler("state: receive: attached blk[%s] to parent[%s]", hash, b.PrevHash)
		return
	}

	s.mempool.AddPending(b)
	s.evHandler("state: receive: orphan marked pending blk[%s]", hash)
}

// Reconcile retries pending orphans against the DAG until no further
// progress is made. Orphans whose parents arrived out of order attach here.
func (s *State) Reconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()

	attached := s.mempool.Reconcile(s.dag.Attach)

	for _, b := range attached {
		s.evHandler("state: reconcile: attached pending blk[%s]", b.Hash())

		if marked := s.mempool.MarkReplaced(b.PrevHash); marked > 0 {
			s.evHandler("state: attach: marked %d queued block(s) replaced: parent[%s]", marked, b.PrevHash)
		}
	}
}

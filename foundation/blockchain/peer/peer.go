// Package peer maintains the per-peer ordering state: the next sequence
// number expected from every sender the node has heard from. The transport
// gives no ordering guarantees, so this is what filters replays and stale
// deliveries.
package peer

import (
	"sync"
)

// restartJump is the size of backward sequence jump treated as a peer
// restart rather than a replay. A restarted peer begins counting from zero
// again; without this it would be silenced until its counter caught up.
const restartJump = 4096

// Peer represents a node in the network, identified by transport address.
type Peer struct {
	Host string
}

// New constructs a peer for the specified host address.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this peer.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// =============================================================================

// PeerSet tracks the next expected sequence number for every peer the node
// has received from. Counters only move forward, except on detected restart.
type PeerSet struct {
	mu   sync.RWMutex
	next map[Peer]uint32
}

// NewPeerSet constructs a set to track peer sequence state.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		next: make(map[Peer]uint32),
	}
}

// Stale reports whether a transaction carrying the specified sequence number
// from the specified peer should be dropped as a replay or stale delivery.
// A backward jump of restartJump or more reads as the peer having restarted
// with a fresh counter, and is not stale.
func (ps *PeerSet) Stale(p Peer, seqNo uint32) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	next, exists := ps.next[p]
	if !exists || seqNo >= next {
		return false
	}

	return next-seqNo < restartJump
}

// Record commits the sequence number of an accepted transaction, moving the
// peer's expectation to the number after it.
func (ps *PeerSet) Record(p Peer, seqNo uint32) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.next[p] = seqNo + 1
}

// Next returns the next expected sequence number for the specified peer.
func (ps *PeerSet) Next(p Peer) uint32 {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return ps.next[p]
}

// Known returns the peers the node has received from.
func (ps *PeerSet) Known() []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.next))
	for p := range ps.next {
		peers = append(peers, p)
	}

	return peers
}

// Package state is the core API for the voting chain and implements all the
// business rules and processing. It owns the block DAG, the mempool, and
// the per-peer ordering state, and drives the replication protocol over an
// abstract broadcast transport.
package state

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/dag"
	"github.com/votechain/votechain/foundation/blockchain/mempool"
	"github.com/votechain/votechain/foundation/blockchain/peer"
	"github.com/votechain/votechain/foundation/blockchain/pow"
)

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for running the chain's event loop.
type Worker interface {
	Shutdown()
}

// Transport represents the behavior required of the broadcast network the
// node replicates over. All three calls are best effort: no delivery,
// ordering, or deduplication guarantees.
type Transport interface {
	Send(data []byte, addr string) bool
	Broadcast(data []byte) bool
	Receive() (data []byte, addr string, ok bool)
}

// =============================================================================

// Config represents the configuration required to start the chain node.
type Config struct {
	NodeID     int
	Channel    uint16
	Difficulty uint
	ActFile    string
	Transport  Transport
	EvHandler  EventHandler
}

// State manages the voting chain for a single node.
type State struct {
	mu         sync.Mutex
	nodeID     int
	channel    uint16
	difficulty uint
	actFile    string
	net        Transport
	evHandler  EventHandler
	seqNo      uint32

	dag     *dag.DAG
	mempool *mempool.Mempool
	peers   *peer.PeerSet

	Worker Worker
}

// New constructs the chain state: it seals this node's genesis block, which
// is unbounded work, and announces the node to the network with a DISCOVER
// broadcast.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	difficulty := cfg.Difficulty
	if difficulty == 0 {
		difficulty = pow.Difficulty
	}

	ev("state: init: sealing genesis block: started")

	// The genesis is the zero block sealed locally. Every node does this
	// independently at startup; peers merge roots through SYNC.
	genesis, err := sealGenesis(difficulty)
	if err != nil {
		return nil, err
	}

	ev("state: init: sealing genesis block: completed: blk[%s]", genesis.Hash())

	s := State{
		nodeID:     cfg.NodeID,
		channel:    cfg.Channel,
		difficulty: difficulty,
		actFile:    cfg.ActFile,
		net:        cfg.Transport,
		evHandler:  ev,

		dag:     dag.New(genesis),
		mempool: mempool.New(),
		peers:   peer.NewPeerSet(),
	}

	s.broadcastDiscover()

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start the event loop for the node.

	return &s, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Genesis returns the hash of this node's root block.
func (s *State) Genesis() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dag.HashAt(dag.Root)
}

// =============================================================================

// attach adds a verified block to the DAG and, on success, flags any queued
// unsealed block that was racing for the same parent slot. Lock must be held.
func (s *State) attach(b block.Block) bool {
	if !s.dag.Attach(b) {
		return false
	}

	if marked := s.mempool.MarkReplaced(b.PrevHash); marked > 0 {
		s.evHandler("state: attach: marked %d queued block(s) replaced: parent[%s]", marked, b.PrevHash)
	}

	return true
}

// tip returns the hash of the longest chain's leaf. Lock must be held.
func (s *State) tip() common.Hash {
	return s.dag.HashAt(s.dag.LongestTip())
}

package peer_test

import (
	"testing"

	"github.com/votechain/votechain/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSequenceOrdering(t *testing.T) {
	t.Log("Given the need to filter replayed and stale transactions.")
	{
		ps := peer.NewPeerSet()
		p := peer.New("10.0.0.7:12345")

		if ps.Stale(p, 5) {
			t.Fatalf("\t%s\tShould accept the first transaction from an unknown peer.", failed)
		}
		t.Logf("\t%s\tShould accept the first transaction from an unknown peer.", success)

		ps.Record(p, 5)
		if got := ps.Next(p); got != 6 {
			t.Fatalf("\t%s\tShould expect seqno 6 next, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould expect seqno 6 next.", success)

		if !ps.Stale(p, 3) {
			t.Fatalf("\t%s\tShould drop a replayed seqno below the expectation.", failed)
		}
		t.Logf("\t%s\tShould drop a replayed seqno below the expectation.", success)

		if ps.Stale(p, 6) {
			t.Fatalf("\t%s\tShould accept the expected seqno.", failed)
		}
		if ps.Stale(p, 9) {
			t.Fatalf("\t%s\tShould accept a gap; missing numbers are skipped.", failed)
		}
		t.Logf("\t%s\tShould accept expected and gapped seqnos.", success)

		ps.Record(p, 9)
		if got := ps.Next(p); got != 10 {
			t.Fatalf("\t%s\tShould never move the expectation backward, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould move the expectation monotonically.", success)
	}
}

func TestPeerRestart(t *testing.T) {
	t.Log("Given the need to re-admit a peer that restarted its counter.")
	{
		ps := peer.NewPeerSet()
		p := peer.New("10.0.0.8:12345")

		ps.Record(p, 100_000)

		if !ps.Stale(p, 99_999) {
			t.Fatalf("\t%s\tShould treat a small backward step as a replay.", failed)
		}
		t.Logf("\t%s\tShould treat a small backward step as a replay.", success)

		if ps.Stale(p, 0) {
			t.Fatalf("\t%s\tShould treat a large backward jump as a peer restart.", failed)
		}
		t.Logf("\t%s\tShould treat a large backward jump as a peer restart.", success)

		ps.Record(p, 0)
		if got := ps.Next(p); got != 1 {
			t.Fatalf("\t%s\tShould reset the expectation after a restart, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould reset the expectation after a restart.", success)
	}
}

func TestPeersIndependent(t *testing.T) {
	t.Log("Given the need to track ordering per peer.")
	{
		ps := peer.NewPeerSet()
		a := peer.New("10.0.0.1:12345")
		b := peer.New("10.0.0.2:12345")

		ps.Record(a, 50)

		if ps.Stale(b, 0) {
			t.Fatalf("\t%s\tShould not apply one peer's counter to another.", failed)
		}
		t.Logf("\t%s\tShould not apply one peer's counter to another.", success)

		if got := len(ps.Known()); got != 1 {
			t.Fatalf("\t%s\tShould know exactly the peers heard from, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould know exactly the peers heard from.", success)
	}
}

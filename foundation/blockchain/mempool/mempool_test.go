package mempool_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestStaging(t *testing.T) {
	t.Log("Given the need to stage votes into blocks.")
	{
		mp := mempool.New()
		tip := common.Hash{0x11}

		t.Logf("\tWhen applying %d votes.", block.MaxVotes)
		{
			for i := range block.MaxVotes - 1 {
				if promoted := mp.Act('A', func() common.Hash { return tip }); promoted {
					t.Fatalf("\t%s\tShould not promote the staging block at %d votes.", failed, i+1)
				}
			}
			t.Logf("\t%s\tShould not promote the staging block before it fills.", success)

			if got := mp.StagingCount(); got != block.MaxVotes-1 {
				t.Fatalf("\t%s\tShould count %d staged votes, got %d.", failed, block.MaxVotes-1, got)
			}
			t.Logf("\t%s\tShould count %d staged votes.", success, block.MaxVotes-1)

			if promoted := mp.Act('A', func() common.Hash { return tip }); !promoted {
				t.Fatalf("\t%s\tShould promote the staging block on the final vote.", failed)
			}
			t.Logf("\t%s\tShould promote the staging block on the final vote.", success)

			if got := mp.StagingCount(); got != 0 {
				t.Fatalf("\t%s\tShould clear staging after promotion, got %d votes.", failed, got)
			}
			t.Logf("\t%s\tShould clear staging after promotion.", success)

			blk, ok := mp.Front()
			if !ok || !blk.IsFull() || blk.PrevHash != tip {
				t.Fatalf("\t%s\tShould queue a full block chained to the tip.", failed)
			}
			t.Logf("\t%s\tShould queue a full block chained to the tip.", success)
		}
	}
}

func TestStagingParentChosenAtStart(t *testing.T) {
	t.Log("Given the need to fix a staging block's parent when staging starts.")
	{
		mp := mempool.New()

		first := common.Hash{0xAA}
		second := common.Hash{0xBB}
		calls := 0
		tips := []common.Hash{first, second}

		tip := func() common.Hash {
			h := tips[calls]
			calls++
			return h
		}

		for range block.MaxVotes {
			mp.Act('X', tip)
		}

		if calls != 1 {
			t.Fatalf("\t%s\tShould read the tip exactly once per staging block, got %d reads.", failed, calls)
		}
		t.Logf("\t%s\tShould read the tip exactly once per staging block.", success)

		blk, _ := mp.Front()
		if blk.PrevHash != first {
			t.Fatalf("\t%s\tShould chain to the tip at staging start, got %s.", failed, blk.PrevHash)
		}
		t.Logf("\t%s\tShould chain to the tip at staging start.", success)
	}
}

func TestReplacedQueue(t *testing.T) {
	t.Log("Given the need to drop queued blocks that lost their slot.")
	{
		mp := mempool.New()
		parent := common.Hash{0x22}
		other := common.Hash{0x33}

		fill := func(tip common.Hash) {
			for range block.MaxVotes {
				mp.Act('B', func() common.Hash { return tip })
			}
		}

		fill(parent)
		fill(other)

		if marked := mp.MarkReplaced(parent); marked != 1 {
			t.Fatalf("\t%s\tShould mark exactly the block racing for the parent, got %d.", failed, marked)
		}
		t.Logf("\t%s\tShould mark exactly the block racing for the parent.", success)

		if dropped := mp.DiscardReplaced(); dropped != 1 {
			t.Fatalf("\t%s\tShould discard the replaced front, got %d.", failed, dropped)
		}
		t.Logf("\t%s\tShould discard the replaced front.", success)

		blk, ok := mp.Front()
		if !ok || blk.PrevHash != other {
			t.Fatalf("\t%s\tShould keep the surviving queued block at the front.", failed)
		}
		t.Logf("\t%s\tShould keep the surviving queued block at the front.", success)

		mp.PopFront()
		if got := mp.QueueCount(); got != 0 {
			t.Fatalf("\t%s\tShould have an empty queue, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould have an empty queue.", success)
	}
}

func TestReconcile(t *testing.T) {
	t.Log("Given the need to drain orphans whose parents arrive late.")
	{
		// A chain of three orphans added in reverse order: each pass can
		// only attach the one whose parent just appeared.
		var b1, b2, b3 block.Block
		b1.Act('a')
		b2.PrevHash = b1.Hash()
		b2.Act('b')
		b3.PrevHash = b2.Hash()
		b3.Act('c')

		mp := mempool.New()
		mp.AddPending(b3)
		mp.AddPending(b2)
		mp.AddPending(b1)

		if !mp.ContainsPending(b2.Hash()) {
			t.Fatalf("\t%s\tShould find a pending orphan by hash.", failed)
		}
		t.Logf("\t%s\tShould find a pending orphan by hash.", success)

		attached := map[common.Hash]bool{b1.PrevHash: true}
		attach := func(b block.Block) bool {
			if !attached[b.PrevHash] {
				return false
			}
			attached[b.Hash()] = true
			return true
		}

		got := mp.Reconcile(attach)
		if len(got) != 3 {
			t.Fatalf("\t%s\tShould attach all three orphans, got %d.", failed, len(got))
		}
		t.Logf("\t%s\tShould attach all three orphans.", success)

		if mp.PendingCount() != 0 {
			t.Fatalf("\t%s\tShould leave the pending pool empty, got %d.", failed, mp.PendingCount())
		}
		t.Logf("\t%s\tShould leave the pending pool empty.", success)
	}
}

func TestReconcileNoProgress(t *testing.T) {
	t.Log("Given the need to stop reconciling when nothing attaches.")
	{
		var orphan block.Block
		orphan.PrevHash[0] = 0x99

		mp := mempool.New()
		mp.AddPending(orphan)

		calls := 0
		got := mp.Reconcile(func(b block.Block) bool {
			calls++
			return false
		})

		if len(got) != 0 || calls != 1 {
			t.Fatalf("\t%s\tShould try each orphan once per pass and stop, got %d attaches in %d calls.", failed, len(got), calls)
		}
		t.Logf("\t%s\tShould try each orphan once and stop without progress.", success)

		if mp.PendingCount() != 1 {
			t.Fatalf("\t%s\tShould keep the unattachable orphan pending.", failed)
		}
		t.Logf("\t%s\tShould keep the unattachable orphan pending.", success)
	}
}

package pow_test

import (
	"context"
	"testing"
	"time"

	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/pow"
)

// testDifficulty keeps the search fast; the mask logic is identical at any
// difficulty.
const testDifficulty = 8

func TestSealThenVerify(t *testing.T) {
	var b block.Block
	for range block.MaxVotes {
		b.Act('A')
	}

	if err := pow.Seal(context.Background(), testDifficulty, &b); err != nil {
		t.Fatalf("seal: %v", err)
	}

	if !pow.Verify(testDifficulty, b) {
		t.Fatalf("sealed block failed verification, hash word %08x", b.HashWord())
	}
}

func TestSealMutatesOnlyNonce(t *testing.T) {
	var b block.Block
	b.Act('Z')
	before := b

	if err := pow.Seal(context.Background(), testDifficulty, &b); err != nil {
		t.Fatalf("seal: %v", err)
	}

	if b.PrevHash != before.PrevHash || b.Votes != before.Votes || b.CountVotes != before.CountVotes {
		t.Fatal("seal mutated a field other than the nonce")
	}
}

func TestSealTimeout(t *testing.T) {

	// At maximum difficulty a solution won't be found inside the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	var b block.Block
	if err := pow.Seal(ctx, 32, &b); err == nil {
		t.Fatal("expected the deadline to stop the search")
	}
}

func TestSealCounterDeterministic(t *testing.T) {
	var a, b block.Block

	if err := pow.SealCounter(context.Background(), testDifficulty, &a); err != nil {
		t.Fatalf("seal a: %v", err)
	}
	if err := pow.SealCounter(context.Background(), testDifficulty, &b); err != nil {
		t.Fatalf("seal b: %v", err)
	}

	if a.Hash() != b.Hash() {
		t.Fatalf("counter seal must be reproducible, got %s and %s", a.Hash(), b.Hash())
	}
	if !pow.Verify(testDifficulty, a) {
		t.Fatal("counter-sealed block failed verification")
	}
}

func TestSolved(t *testing.T) {
	tests := []struct {
		difficulty uint
		word       uint32
		want       bool
	}{
		{22, 0x00000000, true},
		{22, 0xFFC00000, true},
		{22, 0x00000001, false},
		{22, 0x00200000, false},
		{8, 0x12345600, true},
		{8, 0x123456FF, false},
	}

	for _, tt := range tests {
		if got := pow.Solved(tt.difficulty, tt.word); got != tt.want {
			t.Errorf("Solved(%d, %08x) = %v, want %v", tt.difficulty, tt.word, got, tt.want)
		}
	}
}

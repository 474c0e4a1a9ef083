// Package pow implements the proof of work puzzle used to seal blocks. A
// block is sealed when the first word of its hash has the low Difficulty
// bits all zero.
package pow

import (
	"context"
	"math/rand/v2"

	"github.com/votechain/votechain/foundation/blockchain/block"
)

// Difficulty is the number of low bits of the first hash word that must be
// zero for a block to be considered sealed.
const Difficulty = 22

// checkInterval is how many nonce attempts run between deadline checks.
// Checking the context on every attempt would dominate the hash work.
const checkInterval = 1024

// Solved reports whether the specified hash word satisfies the difficulty.
func Solved(difficulty uint, word uint32) bool {
	mask := uint32(1)<<difficulty - 1
	return word&mask == 0
}

// Verify recomputes the block's hash and checks it against the difficulty.
func Verify(difficulty uint, b block.Block) bool {
	return Solved(difficulty, b.HashWord())
}

// Seal searches for a nonce that solves the puzzle for the specified block.
// Only the nonce is mutated. The search draws nonces uniformly at random so
// nodes racing for different blocks don't walk the same path. Seal returns
// the context's error if the deadline elapses first.
func Seal(ctx context.Context, difficulty uint, b *block.Block) error {
	for {
		for range checkInterval {
			b.PowSignature = rand.Uint32()
			if Solved(difficulty, b.HashWord()) {
				return nil
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// SealCounter searches for a nonce by counting up from zero, so every node
// running the same search over the same block lands on the same nonce. The
// genesis block is sealed this way: the shared result is what lets
// independently started nodes agree on a root.
func SealCounter(ctx context.Context, difficulty uint, b *block.Block) error {
	for nonce := uint32(0); ; nonce++ {
		b.PowSignature = nonce
		if Solved(difficulty, b.HashWord()) {
			return nil
		}

		if nonce%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}
}

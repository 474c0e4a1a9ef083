// Package block implements the block data model for the voting chain. A block
// is a fixed-layout record whose identity is the SHA-256 hash of its exact
// byte image.
package block

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// MaxVotes is the number of votes a block holds when it is full. Only full
// blocks are candidates for sealing.
const MaxVotes = 24

// Size is the length of a block's serialized image in bytes. The image is
// the nonce, the parent hash, the vote payload, and the vote count.
const Size = 4 + common.HashLength + MaxVotes + 1

// Action represents a single-byte ballot cast by a participant.
type Action byte

// =============================================================================

// Block represents a group of votes chained to a parent block. The layout is
// fixed and all multi-byte fields serialize big-endian so the content hash is
// stable across hosts.
type Block struct {
	PowSignature uint32
	PrevHash     common.Hash
	Votes        [MaxVotes]Action
	CountVotes   uint8
}

// Act appends a vote to the block. It reports whether the vote was
// recorded; a full block takes no more votes.
func (b *Block) Act(a Action) bool {
	if b.IsFull() {
		return false
	}

	b.Votes[b.CountVotes] = a
	b.CountVotes++

	return true
}

// IsFull reports whether the block holds its maximum number of votes.
func (b Block) IsFull() bool {
	return b.CountVotes == MaxVotes
}

// Hash returns the unique hash for the block, computed over its serialized
// image. Any field change, including the nonce, produces a new hash.
func (b Block) Hash() common.Hash {
	return sha256.Sum256(b.image())
}

// HashWord returns the first 32-bit word of the block's hash. The low bits of
// this word are what the proof of work difficulty constrains.
func (b Block) HashWord() uint32 {
	h := b.Hash()
	return binary.BigEndian.Uint32(h[:4])
}

// =============================================================================

// MarshalBinary serializes the block into its fixed byte image.
func (b Block) MarshalBinary() ([]byte, error) {
	return b.image(), nil
}

// UnmarshalBinary deserializes a block from its fixed byte image.
func (b *Block) UnmarshalBinary(data []byte) error {
	if len(data) < Size {
		return fmt.Errorf("block image too short, got %d bytes, exp %d", len(data), Size)
	}

	b.PowSignature = binary.BigEndian.Uint32(data[0:4])
	copy(b.PrevHash[:], data[4:4+common.HashLength])

	votes := data[4+common.HashLength : 4+common.HashLength+MaxVotes]
	for i := range b.Votes {
		b.Votes[i] = Action(votes[i])
	}

	count := data[Size-1]
	if count > MaxVotes {
		return fmt.Errorf("vote count out of range, got %d, max %d", count, MaxVotes)
	}
	b.CountVotes = count

	return nil
}

// image produces the canonical byte layout the hash is computed over.
func (b Block) image() []byte {
	data := make([]byte, Size)

	binary.BigEndian.PutUint32(data[0:4], b.PowSignature)
	copy(data[4:4+common.HashLength], b.PrevHash[:])

	for i, v := range b.Votes {
		data[4+common.HashLength+i] = byte(v)
	}
	data[Size-1] = b.CountVotes

	return data
}

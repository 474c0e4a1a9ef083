package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votechain/votechain/foundation/blockchain/block"
)

func TestRoundTrip(t *testing.T) {
	b := block.Block{
		PowSignature: 0xDEADBEEF,
	}
	for i := range byte(7) {
		b.PrevHash[i] = i + 1
	}
	for _, v := range "ABAC" {
		require.True(t, b.Act(block.Action(v)))
	}

	data, err := b.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, block.Size)

	var got block.Block
	require.NoError(t, got.UnmarshalBinary(data))

	assert.Equal(t, b.PowSignature, got.PowSignature)
	assert.Equal(t, b.PrevHash, got.PrevHash)
	assert.Equal(t, b.Votes, got.Votes)
	assert.Equal(t, b.CountVotes, got.CountVotes)
	assert.Equal(t, b.Hash(), got.Hash())
}

func TestUnmarshalErrors(t *testing.T) {
	var b block.Block

	assert.Error(t, b.UnmarshalBinary(make([]byte, block.Size-1)))

	bad := make([]byte, block.Size)
	bad[block.Size-1] = block.MaxVotes + 1
	assert.Error(t, b.UnmarshalBinary(bad))
}

func TestActBound(t *testing.T) {
	var b block.Block

	for i := range block.MaxVotes {
		assert.False(t, b.IsFull(), "block must not be full at %d votes", i)
		require.True(t, b.Act('A'))
	}

	assert.True(t, b.IsFull())
	assert.False(t, b.Act('A'), "a full block must take no more votes")
	assert.Equal(t, uint8(block.MaxVotes), b.CountVotes)
}

func TestHashCoversEveryField(t *testing.T) {
	var b block.Block
	base := b.Hash()

	nonce := b
	nonce.PowSignature = 1
	assert.NotEqual(t, base, nonce.Hash())

	parent := b
	parent.PrevHash[31] = 1
	assert.NotEqual(t, base, parent.Hash())

	vote := b
	require.True(t, vote.Act('A'))
	assert.NotEqual(t, base, vote.Hash())

	same := b
	assert.Equal(t, base, same.Hash(), "hash must be deterministic")
}

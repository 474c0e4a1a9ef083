package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votechain/votechain/foundation/blockchain/block"
	"github.com/votechain/votechain/foundation/blockchain/wire"
)

func TestMagic(t *testing.T) {

	// The protocol constant packs the ASCII bytes 'P','F','N','S'.
	assert.Equal(t, uint32(0x50464E53), wire.Magic)
}

func TestRoundTrip(t *testing.T) {
	blk := block.Block{PowSignature: 42}
	blk.PrevHash[0] = 0x7F
	require.True(t, blk.Act('Z'))

	tests := []struct {
		name string
		tran wire.Transaction
	}{
		{"discover", wire.Transaction{Magic: wire.Magic, Channel: 7, Type: wire.TypeDiscover, SeqNo: 1}},
		{"sync", wire.Transaction{Magic: wire.Magic, Channel: 7, Type: wire.TypeSync, SeqNo: 2, Block: blk}},
		{"notify_signed", wire.Transaction{Magic: wire.Magic, Channel: 7, Type: wire.TypeNotifySigned, SeqNo: 3, Block: blk}},
		{"act", wire.Transaction{Magic: wire.Magic, Channel: 7, Type: wire.TypeAct, SeqNo: 4, Act: 'A'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.tran.MarshalBinary()
			require.NoError(t, err)
			require.Len(t, data, wire.Size, "every transaction serializes to the same size")

			var got wire.Transaction
			require.NoError(t, got.UnmarshalBinary(data))

			assert.Equal(t, tt.tran.Magic, got.Magic)
			assert.Equal(t, tt.tran.Channel, got.Channel)
			assert.Equal(t, tt.tran.Type, got.Type)
			assert.Equal(t, tt.tran.SeqNo, got.SeqNo)
			assert.Equal(t, tt.tran.Block, got.Block)
			assert.Equal(t, tt.tran.Act, got.Act)
		})
	}
}

func TestPayloadIsolation(t *testing.T) {

	// A decoded ACT must not carry block payload left over in the image.
	blk := block.Block{PowSignature: 99}
	data, err := wire.Transaction{Magic: wire.Magic, Type: wire.TypeSync, Block: blk}.MarshalBinary()
	require.NoError(t, err)

	var sync wire.Transaction
	require.NoError(t, sync.UnmarshalBinary(data))

	data[7] = byte(wire.TypeAct) // flip the type field, payload bytes unchanged

	var act wire.Transaction
	require.NoError(t, act.UnmarshalBinary(data))
	assert.Equal(t, block.Block{}, act.Block, "only the selected union arm decodes")
}

func TestUnmarshalShort(t *testing.T) {
	var tran wire.Transaction
	assert.Error(t, tran.UnmarshalBinary(make([]byte, wire.Size-1)))
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "DISCOVER", wire.TypeDiscover.String())
	assert.Equal(t, "SYNC", wire.TypeSync.String())
	assert.Equal(t, "NOTIFY_SIGNED", wire.TypeNotifySigned.String())
	assert.Equal(t, "ACT", wire.TypeAct.String())
	assert.Equal(t, "UNKNOWN(9)", wire.TranType(9).String())
}

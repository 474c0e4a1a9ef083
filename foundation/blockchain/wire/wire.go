// Package wire implements the fixed-width transaction codec used between
// nodes. Every transaction serializes into the same number of bytes
// regardless of type, and all multi-byte fields are big-endian so
// heterogeneous hosts agree on the image.
package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/votechain/votechain/foundation/blockchain/block"
)

// Magic identifies transactions that belong to this protocol. Anything
// received without it is noise on the port and is dropped.
const Magic uint32 = 'P'<<24 | 'F'<<16 | 'N'<<8 | 'S'

// TranType identifies which arm of the payload union a transaction carries.
type TranType uint16

// The set of transaction types in the replication protocol.
const (
	TypeDiscover     TranType = 0 // Ask peers to sync us their chain.
	TypeSync         TranType = 1 // One block of a peer's chain.
	TypeNotifySigned TranType = 2 // A freshly sealed block.
	TypeAct          TranType = 3 // A single vote.
)

// String returns the protocol name of the transaction type.
func (t TranType) String() string {
	switch t {
	case TypeDiscover:
		return "DISCOVER"
	case TypeSync:
		return "SYNC"
	case TypeNotifySigned:
		return "NOTIFY_SIGNED"
	case TypeAct:
		return "ACT"
	}

	return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
}

// =============================================================================

// headerSize is the fixed portion of the image: magic, channel, type, seqno.
const headerSize = 4 + 2 + 2 + 4

// Size is the full transaction image length. The payload region is sized to
// the largest union arm, which is a block.
const Size = headerSize + block.Size

// Transaction is a single protocol message. The Block and Act fields form a
// union indexed by Type: Block is meaningful for SYNC and NOTIFY_SIGNED, Act
// for ACT, and neither for DISCOVER.
type Transaction struct {
	Magic   uint32
	Channel uint16
	Type    TranType
	SeqNo   uint32

	Block block.Block
	Act   block.Action
}

// MarshalBinary serializes the transaction into its fixed image.
func (t Transaction) MarshalBinary() ([]byte, error) {
	data := make([]byte, Size)

	binary.BigEndian.PutUint32(data[0:4], t.Magic)
	binary.BigEndian.PutUint16(data[4:6], t.Channel)
	binary.BigEndian.PutUint16(data[6:8], uint16(t.Type))
	binary.BigEndian.PutUint32(data[8:12], t.SeqNo)

	switch t.Type {
	case TypeSync, TypeNotifySigned:
		image, err := t.Block.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("marshal block payload: %w", err)
		}
		copy(data[headerSize:], image)

	case TypeAct:
		data[headerSize] = byte(t.Act)
	}

	return data, nil
}

// UnmarshalBinary deserializes a transaction from its fixed image. Only the
// payload arm selected by the type field is decoded; the rest of the payload
// region is padding.
func (t *Transaction) UnmarshalBinary(data []byte) error {
	if len(data) < Size {
		return fmt.Errorf("transaction image too short, got %d bytes, exp %d", len(data), Size)
	}

	t.Magic = binary.BigEndian.Uint32(data[0:4])
	t.Channel = binary.BigEndian.Uint16(data[4:6])
	t.Type = TranType(binary.BigEndian.Uint16(data[6:8]))
	t.SeqNo = binary.BigEndian.Uint32(data[8:12])

	t.Block = block.Block{}
	t.Act = 0

	switch t.Type {
	case TypeSync, TypeNotifySigned:
		if err := t.Block.UnmarshalBinary(data[headerSize:]); err != nil {
			return fmt.Errorf("unmarshal block payload: %w", err)
		}

	case TypeAct:
		t.Act = block.Action(data[headerSize])
	}

	return nil
}

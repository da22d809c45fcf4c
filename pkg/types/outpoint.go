package types

import (
	"encoding/binary"
	"fmt"
)

// OutPointSize is the serialized length of an outpoint commitment:
// 32-byte txid plus 4-byte index.
const OutPointSize = HashSize + 4

// OutPoint references a specific output in a transaction.
// TxID is held in display (big-endian hex) order.
type OutPoint struct {
	TxID  Hash   `json:"txid"`
	Index uint32 `json:"index"`
}

// IsZero returns true if the outpoint has a zero TxID and zero index.
func (o OutPoint) IsZero() bool {
	return o.TxID.IsZero() && o.Index == 0
}

// String returns "txid:index" in display hex.
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.String(), o.Index)
}

// CommitmentBytes returns the fixed-layout serialization used when an
// outpoint is committed into a payment key: the txid with its byte
// order reversed to the little-endian chain convention, followed by
// the output index as 4 little-endian bytes.
func (o OutPoint) CommitmentBytes() [OutPointSize]byte {
	var buf [OutPointSize]byte
	reversed := o.TxID.Reversed()
	copy(buf[:HashSize], reversed[:])
	binary.LittleEndian.PutUint32(buf[HashSize:], o.Index)
	return buf
}

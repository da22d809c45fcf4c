package colorid

import (
	"github.com/chaincolor/colorverd/pkg/crypto"
	"github.com/chaincolor/colorverd/pkg/types"
)

// Commitment is the 32-byte value tweaked into the payment key.
type Commitment [types.HashSize]byte

// CommitmentFromMetadata builds the reissuable-class commitment: the
// digest of the canonically serialized metadata, used as-is.
func CommitmentFromMetadata(digest types.Hash) Commitment {
	return Commitment(digest)
}

// CommitmentFromOutPoint builds the commitment for non-reissuable and
// NFT classes: SHA256 over the outpoint's fixed serialization
// (reversed txid followed by the little-endian output index).
func CommitmentFromOutPoint(op types.OutPoint) Commitment {
	buf := op.CommitmentBytes()
	return Commitment(crypto.Sha256(buf[:]))
}

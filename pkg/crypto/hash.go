// Package crypto provides the hash and elliptic-curve primitives used
// by the Color ID derivation protocol.
package crypto

import (
	"crypto/sha256"

	"github.com/chaincolor/colorverd/pkg/types"
	"golang.org/x/crypto/ripemd160"
)

// Hash160Size is the length of a RIPEMD-160 digest in bytes.
const Hash160Size = 20

// Sha256 computes a SHA-256 hash of the input data.
func Sha256(data []byte) types.Hash {
	return sha256.Sum256(data)
}

// Sha256d computes SHA256(SHA256(data)).
func Sha256d(data []byte) types.Hash {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Hash160 computes RIPEMD160(SHA256(data)), the standard 20-byte
// public key hash.
func Hash160(data []byte) [Hash160Size]byte {
	first := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(first[:])
	var out [Hash160Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PaymentBaseSize is the length of a compressed public key in bytes.
const PaymentBaseSize = 33

// paymentBasePattern matches a compressed secp256k1 public key in hex:
// a 02 or 03 prefix byte followed by the 32-byte X coordinate.
var paymentBasePattern = regexp.MustCompile(`^(02|03)[0-9a-fA-F]{64}$`)

// Curve errors. These are fatal to the current derivation and are
// never coerced into a mismatch.
var (
	ErrInvalidPoint    = errors.New("payment base is not a valid curve point")
	ErrTweakOutOfRange = errors.New("tweak scalar exceeds the curve order")
	ErrTweakZero       = errors.New("tweak scalar is zero")
	ErrPointAtInfinity = errors.New("tweaked point is the point at infinity")
)

// ParsePaymentBase decodes a 66-character compressed public key from
// hex and validates that it lies on the secp256k1 curve.
func ParsePaymentBase(s string) (*secp256k1.PublicKey, error) {
	if !paymentBasePattern.MatchString(s) {
		return nil, fmt.Errorf("payment base must match ^(02|03)[0-9a-f]{64}$, got %d chars", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("payment base hex: %w", err)
	}
	pub, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return pub, nil
}

// TweakPublicKey computes the pay-to-contract key
//
//	P' = P + SHA256(compressed(P) || commitment) * G
//
// binding the 32-byte commitment to the base key. The tweak hash is
// interpreted as a big-endian scalar; a scalar of zero or one at or
// beyond the curve order is rejected rather than reduced, as is a
// result at the point at infinity.
func TweakPublicKey(base *secp256k1.PublicKey, commitment [32]byte) (*secp256k1.PublicKey, error) {
	msg := make([]byte, 0, PaymentBaseSize+len(commitment))
	msg = append(msg, base.SerializeCompressed()...)
	msg = append(msg, commitment[:]...)
	tweak := sha256.Sum256(msg)

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetBytes(&tweak); overflow != 0 {
		return nil, ErrTweakOutOfRange
	}
	if scalar.IsZero() {
		return nil, ErrTweakZero
	}

	var basePoint, tweakPoint, sum secp256k1.JacobianPoint
	base.AsJacobian(&basePoint)
	secp256k1.ScalarBaseMultNonConst(&scalar, &tweakPoint)
	secp256k1.AddNonConst(&basePoint, &tweakPoint, &sum)

	if (sum.X.IsZero() && sum.Y.IsZero()) || sum.Z.IsZero() {
		return nil, ErrPointAtInfinity
	}

	sum.ToAffine()
	return secp256k1.NewPublicKey(&sum.X, &sum.Y), nil
}

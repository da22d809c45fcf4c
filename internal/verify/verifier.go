package verify

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"

	"github.com/chaincolor/colorverd/internal/chain"
	"github.com/chaincolor/colorverd/internal/colorid"
	klog "github.com/chaincolor/colorverd/internal/log"
	"github.com/chaincolor/colorverd/internal/metadata"
	"github.com/chaincolor/colorverd/pkg/crypto"
	"github.com/rs/zerolog"
)

// Verifier recomputes Color IDs and checks claims against them. It
// holds no mutable state; independent verifications may run
// concurrently on one Verifier.
type Verifier struct {
	fetcher chain.ScriptFetcher // nil disables the chain cross-check
	logger  zerolog.Logger
}

// New creates a Verifier. A nil fetcher skips the on-chain script
// cross-check for outpoint-bound classes.
func New(fetcher chain.ScriptFetcher) *Verifier {
	return &Verifier{
		fetcher: fetcher,
		logger:  klog.WithComponent("verify"),
	}
}

// Verify recomputes the Color ID for the request and compares it to
// the claimed identifier. A well-formed forgery or typo returns
// Matched=false with both identifiers; only stage failures (schema,
// format, curve, network) return a *Error.
func (v *Verifier) Verify(ctx context.Context, req DerivationRequest, claimed string) (*Result, error) {
	result := &Result{}

	claimedID, err := colorid.Parse(claimed)
	if err != nil {
		return nil, &Error{
			Stage:  StageValidate,
			Err:    &FormatError{Field: "color_id", Value: claimed, Err: err},
			Result: result,
		}
	}
	result.ClaimedColorID = claimedID

	// The class prefix is fixed at creation; a claim whose prefix
	// disagrees with the request's derivation path can never match.
	if claimedID.Class() != req.Class() {
		return nil, &Error{
			Stage: StageValidate,
			Err: &FormatError{
				Field: "color_id",
				Value: claimed,
				Err: fmt.Errorf("class prefix c%d does not match request class c%d (%s)",
					claimedID.Class(), req.Class(), req.Class()),
			},
			Result: result,
		}
	}

	der, verr := v.derive(req)
	if verr != nil {
		verr.Result = result
		return nil, verr
	}

	result.DerivedColorID = der.ColorID
	result.MetadataDigest = der.MetadataDigest
	result.TweakedPubKey = der.TweakedPubKey

	if der.ColorID != claimedID {
		v.logger.Debug().
			Str("claimed", claimedID.String()).
			Str("derived", der.ColorID.String()).
			Msg("color id mismatch")
		return result, nil
	}

	// Chain cross-check: for outpoint-bound classes, the script
	// spending the referenced output must be exactly the P2PKH script
	// of the tweaked key.
	if op, ok := req.(OutPointBound); ok && v.fetcher != nil {
		expected, err := hex.DecodeString(der.Script)
		if err != nil {
			return nil, &Error{Stage: StageChainCheck, Err: err, Result: result}
		}
		actual, err := v.fetcher.OutputScript(ctx, op.OutPoint.TxID, op.OutPoint.Index)
		if err != nil {
			return nil, &Error{
				Stage:  StageChainCheck,
				Err:    fmt.Errorf("outpoint %s: %w", op.OutPoint, err),
				Result: result,
			}
		}
		result.ExpectedScript = der.Script
		result.ActualScript = hex.EncodeToString(actual)
		if !bytes.Equal(expected, actual) {
			v.logger.Debug().
				Str("outpoint", op.OutPoint.String()).
				Str("expected_script", result.ExpectedScript).
				Str("actual_script", result.ActualScript).
				Msg("on-chain script mismatch")
			return result, nil
		}
	}

	result.Matched = true
	return result, nil
}

// Derive computes the Color ID and its intermediate values for a
// request, without a claim to compare against.
func (v *Verifier) Derive(req DerivationRequest) (*Derivation, error) {
	der, verr := v.derive(req)
	if verr != nil {
		return nil, verr
	}
	return der, nil
}

// derive runs validate → commitment → key derivation → id derivation.
func (v *Verifier) derive(req DerivationRequest) (*Derivation, *Error) {
	record, err := metadata.Validate(req.rawMetadata(), req.Class())
	if err != nil {
		return nil, &Error{Stage: StageValidate, Err: err}
	}

	base, err := crypto.ParsePaymentBase(req.paymentBase())
	if err != nil {
		return nil, &Error{
			Stage: StageValidate,
			Err:   &FormatError{Field: "payment_base", Value: req.paymentBase(), Err: err},
		}
	}

	digest, err := metadata.Digest(record)
	if err != nil {
		return nil, &Error{Stage: StageCommitment, Err: err}
	}

	var commitment colorid.Commitment
	switch r := req.(type) {
	case Reissuable:
		commitment = colorid.CommitmentFromMetadata(digest)
	case OutPointBound:
		if r.TokenClass != colorid.NonReissuable && r.TokenClass != colorid.NFT {
			return nil, &Error{
				Stage: StageCommitment,
				Err:   fmt.Errorf("outpoint-bound class must be c2 or c3, got c%d", r.TokenClass),
			}
		}
		if r.OutPoint.TxID.IsZero() {
			return nil, &Error{
				Stage: StageCommitment,
				Err:   fmt.Errorf("outpoint txid is zero"),
			}
		}
		commitment = colorid.CommitmentFromOutPoint(r.OutPoint)
	default:
		return nil, &Error{
			Stage: StageCommitment,
			Err:   fmt.Errorf("unsupported request type %T", req),
		}
	}

	tweaked, err := crypto.TweakPublicKey(base, commitment)
	if err != nil {
		return nil, &Error{Stage: StageKeyDerivation, Err: err}
	}

	id, err := colorid.Derive(tweaked, req.Class())
	if err != nil {
		return nil, &Error{Stage: StageIDDerivation, Err: err}
	}

	return &Derivation{
		ColorID:        id,
		MetadataDigest: digest,
		TweakedPubKey:  hex.EncodeToString(tweaked.SerializeCompressed()),
		Script:         hex.EncodeToString(colorid.P2PKHScript(tweaked)),
	}, nil
}

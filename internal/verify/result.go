package verify

import (
	"github.com/chaincolor/colorverd/internal/colorid"
	"github.com/chaincolor/colorverd/pkg/types"
)

// Result is the immutable outcome of one verification call. It is
// built once and never persisted by this package; storing accepted
// registrations is the caller's concern.
type Result struct {
	// Matched is true when the recomputed identifier (and, for
	// outpoint-bound classes with a configured fetcher, the on-chain
	// script) equals the claim.
	Matched bool `json:"matched"`

	DerivedColorID colorid.ColorID `json:"derived_color_id,omitempty"`
	ClaimedColorID colorid.ColorID `json:"claimed_color_id,omitempty"`

	// MetadataDigest is the SHA-256 of the canonical metadata bytes,
	// computed for every class.
	MetadataDigest types.Hash `json:"metadata_digest,omitempty"`

	// TweakedPubKey is the derived pay-to-contract key, compressed hex.
	TweakedPubKey string `json:"tweaked_pubkey,omitempty"`

	// ExpectedScript and ActualScript are hex-encoded and populated
	// only when the chain cross-check ran.
	ExpectedScript string `json:"expected_script,omitempty"`
	ActualScript   string `json:"actual_script,omitempty"`
}

// Derivation is the outcome of a derivation without a claim to compare
// against.
type Derivation struct {
	ColorID        colorid.ColorID `json:"color_id"`
	MetadataDigest types.Hash      `json:"metadata_digest"`
	TweakedPubKey  string          `json:"tweaked_pubkey"`
	Script         string          `json:"script"`
}

// Package verify implements the Color ID verification orchestrator: a
// single-pass state machine recomputing a claimed identifier from
// metadata and a payment key or outpoint, with an optional on-chain
// script cross-check.
package verify

import (
	"github.com/chaincolor/colorverd/internal/colorid"
	"github.com/chaincolor/colorverd/pkg/types"
)

// DerivationRequest selects the commitment path for one verification.
// It is a closed set: Reissuable commits to the metadata digest,
// OutPointBound commits to a transaction outpoint. Each variant
// carries exactly the data its path needs, so a wrong pairing (an
// outpoint for a reissuable token, or a bare payment key for an
// outpoint-bound one) cannot be expressed.
type DerivationRequest interface {
	// Class returns the token class the request derives for.
	Class() colorid.TokenClass

	rawMetadata() map[string]any
	paymentBase() string
}

// Reissuable derives a class-1 Color ID: the commitment is the digest
// of the canonical metadata.
type Reissuable struct {
	// Metadata is the raw parsed-JSON submission.
	Metadata map[string]any
	// PaymentBase is the issuer's compressed public key in hex.
	PaymentBase string
}

// Class returns colorid.Reissuable.
func (r Reissuable) Class() colorid.TokenClass { return colorid.Reissuable }

func (r Reissuable) rawMetadata() map[string]any { return r.Metadata }
func (r Reissuable) paymentBase() string         { return r.PaymentBase }

// OutPointBound derives a class-2 or class-3 Color ID: the commitment
// is computed from the issuance outpoint.
type OutPointBound struct {
	Metadata    map[string]any
	PaymentBase string
	OutPoint    types.OutPoint
	// TokenClass must be NonReissuable or NFT.
	TokenClass colorid.TokenClass
}

// Class returns the declared outpoint-bound class.
func (r OutPointBound) Class() colorid.TokenClass { return r.TokenClass }

func (r OutPointBound) rawMetadata() map[string]any { return r.Metadata }
func (r OutPointBound) paymentBase() string         { return r.PaymentBase }

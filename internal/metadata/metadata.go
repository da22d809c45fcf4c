// Package metadata implements the token metadata schema: validation of
// raw submissions and the canonical byte serialization that feeds the
// commitment digest.
package metadata

import (
	"github.com/chaincolor/colorverd/internal/colorid"
)

// SchemaVersion is the fixed version tag carried by every record.
const SchemaVersion = "1.0"

// Schema limits. These are protocol rules: every verifier must apply
// the same bounds or commitments diverge.
const (
	MaxNameLen        = 64
	MaxSymbolLen      = 12
	MaxDescriptionLen = 256
	MaxDecimals       = 18
)

// Issuer describes the party issuing a token. All fields optional.
type Issuer struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// Record is a validated token metadata record. Optional string fields
// use the empty string for absence; Decimals uses nil. Absent fields
// are excluded from the canonical serialization entirely.
type Record struct {
	Name        string
	Symbol      string
	Decimals    *int
	Description string
	Icon        string
	Website     string
	Terms       string
	Issuer      *Issuer

	// NFT-class only.
	Image        string
	AnimationURL string
	ExternalURL  string
	Attributes   []any

	TokenType colorid.TokenClass
	Version   string

	// Extra holds unknown top-level fields verbatim. They are kept for
	// storage round-trips but never participate in the canonical
	// digest.
	Extra map[string]any
}

// DecimalsOrDefault returns the declared decimals, or 0 when absent.
func (r *Record) DecimalsOrDefault() int {
	if r.Decimals == nil {
		return 0
	}
	return *r.Decimals
}

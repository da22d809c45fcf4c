// Package colorid implements the Color ID identifier scheme for
// colored-coin assets.
//
// A Color ID is a 66-character string: the literal "c", a one-digit
// token class, and 64 lowercase hex characters naming the
// double-SHA-256 of the asset's pay-to-public-key-hash script. The
// class prefix is fixed at derivation and the hex suffix is derived,
// never chosen.
package colorid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/chaincolor/colorverd/pkg/types"
)

// TokenClass identifies one of the three colored-coin token classes.
type TokenClass uint8

const (
	// Reissuable tokens commit to their metadata digest; the issuer
	// can mint further supply from the same payment key.
	Reissuable TokenClass = 1
	// NonReissuable tokens commit to a spent transaction outpoint,
	// fixing the supply at issuance.
	NonReissuable TokenClass = 2
	// NFT tokens commit to an outpoint and carry a single unit.
	NFT TokenClass = 3
)

// Token type tags as they appear in metadata records.
const (
	TypeReissuable    = "reissuable"
	TypeNonReissuable = "non_reissuable"
	TypeNFT           = "nft"
)

// Valid returns true for one of the three defined classes.
func (c TokenClass) Valid() bool {
	return c >= Reissuable && c <= NFT
}

// String returns the token_type tag for the class.
func (c TokenClass) String() string {
	switch c {
	case Reissuable:
		return TypeReissuable
	case NonReissuable:
		return TypeNonReissuable
	case NFT:
		return TypeNFT
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ClassFromTokenType maps a token_type tag to its class.
func ClassFromTokenType(s string) (TokenClass, error) {
	switch s {
	case TypeReissuable:
		return Reissuable, nil
	case TypeNonReissuable:
		return NonReissuable, nil
	case TypeNFT:
		return NFT, nil
	default:
		return 0, fmt.Errorf("unknown token type %q", s)
	}
}

// Length is the exact length of a Color ID string.
const Length = 66

var colorIDPattern = regexp.MustCompile(`^c[123][0-9a-f]{64}$`)

// ColorID is a canonical (lowercase) Color ID string.
type ColorID string

// Parse validates a claimed Color ID. Input hex is accepted
// case-insensitively and canonicalized to lowercase.
func Parse(s string) (ColorID, error) {
	lower := strings.ToLower(s)
	if !colorIDPattern.MatchString(lower) {
		return "", fmt.Errorf("color id must match ^c[123][0-9a-f]{64}$, got %q", s)
	}
	return ColorID(lower), nil
}

// String returns the canonical identifier.
func (id ColorID) String() string {
	return string(id)
}

// Class returns the token class encoded in the prefix.
func (id ColorID) Class() TokenClass {
	if len(id) != Length {
		return 0
	}
	return TokenClass(id[1] - '0')
}

// ScriptHash returns the 32-byte script hash encoded in the suffix.
func (id ColorID) ScriptHash() (types.Hash, error) {
	if len(id) != Length {
		return types.Hash{}, fmt.Errorf("color id has length %d, want %d", len(id), Length)
	}
	return types.HexToHash(string(id[2:]))
}

package colorid

import (
	"fmt"

	"github.com/chaincolor/colorverd/pkg/crypto"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// P2PKH script opcodes.
const (
	opDup         = 0x76
	opHash160     = 0xa9
	opEqualVerify = 0x88
	opCheckSig    = 0xac
)

// P2PKHScriptSize is the length of the canonical pay-to-public-key-hash
// script template.
const P2PKHScriptSize = 25

// P2PKHScript builds the canonical 25-byte pay-to-public-key-hash
// script for a public key:
//
//	OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY OP_CHECKSIG
func P2PKHScript(pub *secp256k1.PublicKey) []byte {
	hash := crypto.Hash160(pub.SerializeCompressed())
	script := make([]byte, 0, P2PKHScriptSize)
	script = append(script, opDup, opHash160, crypto.Hash160Size)
	script = append(script, hash[:]...)
	script = append(script, opEqualVerify, opCheckSig)
	return script
}

// Derive computes the Color ID for a tweaked public key and class:
// the class prefix followed by the lowercase hex of
// SHA256(SHA256(p2pkh_script)). Pure function of its two inputs.
func Derive(tweaked *secp256k1.PublicKey, class TokenClass) (ColorID, error) {
	if !class.Valid() {
		return "", fmt.Errorf("invalid token class %d", class)
	}
	scriptHash := crypto.Sha256d(P2PKHScript(tweaked))
	return ColorID(fmt.Sprintf("c%d%s", class, scriptHash.String())), nil
}

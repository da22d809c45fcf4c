package colorid

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/chaincolor/colorverd/pkg/crypto"
	"github.com/chaincolor/colorverd/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

func mustParseKey(t *testing.T, s string) *secp256k1.PublicKey {
	t.Helper()
	pub, err := crypto.ParsePaymentBase(s)
	if err != nil {
		t.Fatal(err)
	}
	return pub
}

func TestP2PKHScript(t *testing.T) {
	pub := mustParseKey(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")

	script := P2PKHScript(pub)
	if len(script) != P2PKHScriptSize {
		t.Fatalf("script length = %d, want %d", len(script), P2PKHScriptSize)
	}
	want := "76a914751e76e8199196d454941c45d1b3a323f1433bd688ac"
	if hex.EncodeToString(script) != want {
		t.Errorf("P2PKHScript(G) = %x, want %s", script, want)
	}
}

func TestDerive(t *testing.T) {
	// Key tweaked with the digest of
	// {"name":"Test","symbol":"TST","token_type":"reissuable","version":"1.0"}
	// over the generator base.
	pub := mustParseKey(t, "022fb07e554480c0bf22a3439a1fed9dcdc232705af41fae104baae04e7ed0b57e")

	id, err := Derive(pub, Reissuable)
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	want := "c1e7df397d870bef8ce5cf595a6ce596d3de38a3bd6b7b414349a83d083574161d"
	if id.String() != want {
		t.Errorf("Derive = %s, want %s", id, want)
	}
}

func TestDerive_PrefixFollowsClass(t *testing.T) {
	pub := mustParseKey(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")

	for _, class := range []TokenClass{Reissuable, NonReissuable, NFT} {
		id, err := Derive(pub, class)
		if err != nil {
			t.Fatalf("Derive(%s) error: %v", class, err)
		}
		if id.Class() != class {
			t.Errorf("Derive(%s).Class() = %d, want %d", class, id.Class(), class)
		}
		if _, err := Parse(id.String()); err != nil {
			t.Errorf("derived id %s should parse: %v", id, err)
		}
	}
}

func TestDerive_InvalidClass(t *testing.T) {
	pub := mustParseKey(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	if _, err := Derive(pub, TokenClass(0)); err == nil {
		t.Error("Derive with class 0 should fail")
	}
}

func TestCommitmentFromOutPoint(t *testing.T) {
	var txid types.Hash
	for i := 0; i < types.HashSize; i++ {
		txid[i] = byte(i)
	}
	op := types.OutPoint{TxID: txid, Index: 7}

	c := CommitmentFromOutPoint(op)
	want := "fce9cd32a803adc69e87c9f5fa338e2326dfdadaac7a4eed3b1063a6c895f5a7"
	if hex.EncodeToString(c[:]) != want {
		t.Errorf("commitment = %x, want %s", c, want)
	}
}

func TestCommitmentFromOutPoint_IndexMatters(t *testing.T) {
	txid := types.Hash{0xaa}
	c0 := CommitmentFromOutPoint(types.OutPoint{TxID: txid, Index: 0})
	c1 := CommitmentFromOutPoint(types.OutPoint{TxID: txid, Index: 1})
	if c0 == c1 {
		t.Error("different indices should produce different commitments")
	}
}

func TestCommitmentFromMetadata(t *testing.T) {
	digest, err := types.HexToHash(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatal(err)
	}
	c := CommitmentFromMetadata(digest)
	if types.Hash(c) != digest {
		t.Error("metadata commitment should be the digest itself")
	}
}

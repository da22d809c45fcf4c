package metadata

import (
	"testing"

	"github.com/chaincolor/colorverd/internal/colorid"
)

func mustValidate(t *testing.T, raw string, class colorid.TokenClass) *Record {
	t.Helper()
	rec, err := Validate(decode(t, raw), class)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return rec
}

func TestCanonicalBytes_Golden(t *testing.T) {
	rec := mustValidate(t, `{"name":"Test","symbol":"TST"}`, colorid.Reissuable)
	got, err := CanonicalBytes(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"Test","symbol":"TST","token_type":"reissuable","version":"1.0"}`
	if string(got) != want {
		t.Errorf("canonical form = %s, want %s", got, want)
	}
}

func TestCanonicalBytes_OrderIndependent(t *testing.T) {
	a := mustValidate(t, `{"symbol":"TST","name":"Test","decimals":8}`, colorid.Reissuable)
	b := mustValidate(t, `{"decimals":8,"name":"Test","symbol":"TST"}`, colorid.Reissuable)

	ba, err := CanonicalBytes(a)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := CanonicalBytes(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(ba) != string(bb) {
		t.Errorf("canonical forms differ:\n%s\n%s", ba, bb)
	}
}

func TestCanonicalBytes_AbsentFieldsExcluded(t *testing.T) {
	rec := mustValidate(t, `{"name":"Test","symbol":"TST","description":""}`, colorid.Reissuable)
	got, err := CanonicalBytes(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"Test","symbol":"TST","token_type":"reissuable","version":"1.0"}`
	if string(got) != want {
		t.Errorf("empty description should be excluded:\ngot  %s\nwant %s", got, want)
	}
}

func TestCanonicalBytes_ExplicitZeroDecimals(t *testing.T) {
	withZero := mustValidate(t, `{"name":"Test","symbol":"TST","decimals":0}`, colorid.Reissuable)
	without := mustValidate(t, `{"name":"Test","symbol":"TST"}`, colorid.Reissuable)

	a, err := CanonicalBytes(withZero)
	if err != nil {
		t.Fatal(err)
	}
	b, err := CanonicalBytes(without)
	if err != nil {
		t.Fatal(err)
	}
	// An explicit zero and an absent field are distinct documents.
	if string(a) == string(b) {
		t.Error("explicit decimals:0 should serialize differently from absent decimals")
	}
	want := `{"decimals":0,"name":"Test","symbol":"TST","token_type":"reissuable","version":"1.0"}`
	if string(a) != want {
		t.Errorf("canonical form = %s, want %s", a, want)
	}
}

func TestCanonicalBytes_NestedKeySorting(t *testing.T) {
	raw := `{"name":"Art","symbol":"ART","attributes":[{"value":"red","trait_type":"color"}]}`
	rec := mustValidate(t, raw, colorid.NFT)
	got, err := CanonicalBytes(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"attributes":[{"trait_type":"color","value":"red"}],"name":"Art","symbol":"ART","token_type":"nft","version":"1.0"}`
	if string(got) != want {
		t.Errorf("nested keys not sorted:\ngot  %s\nwant %s", got, want)
	}
}

func TestCanonicalBytes_NumberLiteralsPreserved(t *testing.T) {
	raw := `{"name":"Art","symbol":"ART","attributes":[{"trait_type":"level","value":1.50}]}`
	rec := mustValidate(t, raw, colorid.NFT)
	got, err := CanonicalBytes(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"attributes":[{"trait_type":"level","value":1.50}],"name":"Art","symbol":"ART","token_type":"nft","version":"1.0"}`
	if string(got) != want {
		t.Errorf("number literal not preserved:\ngot  %s\nwant %s", got, want)
	}
}

func TestCanonicalBytes_NoHTMLEscaping(t *testing.T) {
	rec := mustValidate(t, `{"name":"A & B <C>","symbol":"TST"}`, colorid.Reissuable)
	got, err := CanonicalBytes(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"A & B <C>","symbol":"TST","token_type":"reissuable","version":"1.0"}`
	if string(got) != want {
		t.Errorf("HTML characters should not be escaped:\ngot  %s\nwant %s", got, want)
	}
}

func TestCanonicalBytes_ExtraExcluded(t *testing.T) {
	withExtra := mustValidate(t, `{"name":"Test","symbol":"TST","x_custom":"hello"}`, colorid.Reissuable)
	plain := mustValidate(t, `{"name":"Test","symbol":"TST"}`, colorid.Reissuable)

	a, err := CanonicalBytes(withExtra)
	if err != nil {
		t.Fatal(err)
	}
	b, err := CanonicalBytes(plain)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Errorf("unknown fields should not be digested:\n%s\n%s", a, b)
	}
}

func TestDigest_Golden(t *testing.T) {
	rec := mustValidate(t, `{"name":"Test","symbol":"TST"}`, colorid.Reissuable)
	digest, err := Digest(rec)
	if err != nil {
		t.Fatal(err)
	}
	const want = "1c8a4b5560cd74713507500ca8cef47c624c39d20c5af93f62879c3c0d5a499c"
	if digest.String() != want {
		t.Errorf("digest = %s, want %s", digest, want)
	}
}

func TestDigest_Avalanche(t *testing.T) {
	a := mustValidate(t, `{"name":"Test","symbol":"TST"}`, colorid.Reissuable)
	b := mustValidate(t, `{"name":"Test!","symbol":"TST"}`, colorid.Reissuable)

	da, err := Digest(a)
	if err != nil {
		t.Fatal(err)
	}
	db, err := Digest(b)
	if err != nil {
		t.Fatal(err)
	}
	if da == db {
		t.Error("different records should produce different digests")
	}
}

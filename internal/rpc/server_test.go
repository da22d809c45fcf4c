package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/chaincolor/colorverd/config"
)

const (
	testGenerator = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
	testColorID   = "c1e7df397d870bef8ce5cf595a6ce596d3de38a3bd6b7b414349a83d083574161d"

	// Standard BIP-39 test mnemonic (all-zero entropy).
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"
)

// testResponse mirrors Response with a raw result for per-test decoding.
type testResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
	ID      interface{}     `json:"id"`
}

func testConfig() *config.Config {
	cfg := config.DefaultProd()
	cfg.Explorer.Enabled = false // no outbound traffic from tests
	return cfg
}

func startServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s := New("127.0.0.1:0", cfg)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Stop(); err != nil {
			t.Errorf("Stop: %v", err)
		}
	})
	return s
}

func call(t *testing.T, s *Server, body string) *testResponse {
	t.Helper()
	resp, err := http.Post("http://"+s.Addr(), "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	var out testResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q, want 2.0", out.JSONRPC)
	}
	return &out
}

func rpcRequest(t *testing.T, method string, params interface{}) string {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      1,
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestColorVerify(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "color_verify", map[string]interface{}{
		"metadata":     map[string]string{"name": "Test", "symbol": "TST"},
		"color_id":     testColorID,
		"payment_base": testGenerator,
	}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}

	var result struct {
		Matched        bool   `json:"matched"`
		DerivedColorID string `json:"derived_color_id"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatal(err)
	}
	if !result.Matched {
		t.Errorf("matched = false, derived %s", result.DerivedColorID)
	}
}

func TestColorVerify_Mismatch(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "color_verify", map[string]interface{}{
		"metadata":     map[string]string{"name": "Test", "symbol": "TSU"},
		"color_id":     testColorID,
		"payment_base": testGenerator,
	}))
	if resp.Error != nil {
		t.Fatalf("a mismatch is a result, not an error: %+v", resp.Error)
	}

	var result struct {
		Matched bool `json:"matched"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.Matched {
		t.Error("matched = true for diverging metadata")
	}
}

func TestColorVerify_SchemaViolations(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "color_verify", map[string]interface{}{
		"metadata":     map[string]string{"symbol": strings.Repeat("x", 13)},
		"color_id":     testColorID,
		"payment_base": testGenerator,
	}))
	if resp.Error == nil {
		t.Fatal("invalid metadata should produce an error")
	}
	if resp.Error.Code != CodeVerifyError {
		t.Errorf("code = %d, want %d", resp.Error.Code, CodeVerifyError)
	}

	data, ok := resp.Error.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("error data = %T, want object", resp.Error.Data)
	}
	violations, ok := data["violations"].([]interface{})
	if !ok || len(violations) < 2 {
		t.Errorf("violations = %v, want missing name and oversized symbol", data["violations"])
	}
}

func TestColorVerify_ParamShape(t *testing.T) {
	s := startServer(t, testConfig())

	cases := []map[string]interface{}{
		// missing color_id
		{"metadata": map[string]string{"name": "T", "symbol": "T"}, "payment_base": testGenerator},
		// missing payment_base
		{"metadata": map[string]string{"name": "T", "symbol": "T"}, "color_id": testColorID},
		// missing metadata
		{"color_id": testColorID, "payment_base": testGenerator},
		// txid on a reissuable claim
		{"metadata": map[string]string{"name": "T", "symbol": "T"}, "color_id": testColorID,
			"payment_base": testGenerator, "txid": strings.Repeat("ab", 32)},
		// unknown network
		{"metadata": map[string]string{"name": "T", "symbol": "T"}, "color_id": testColorID,
			"payment_base": testGenerator, "network": "mainnet"},
	}
	for i, params := range cases {
		resp := call(t, s, rpcRequest(t, "color_verify", params))
		if resp.Error == nil {
			t.Errorf("case %d should fail", i)
			continue
		}
		if resp.Error.Code != CodeInvalidParams {
			t.Errorf("case %d: code = %d, want %d", i, resp.Error.Code, CodeInvalidParams)
		}
	}
}

func TestColorDerive(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "color_derive", map[string]interface{}{
		"metadata":     map[string]string{"name": "Test", "symbol": "TST"},
		"token_type":   "reissuable",
		"payment_base": testGenerator,
	}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}

	var result struct {
		ColorID string `json:"color_id"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.ColorID != testColorID {
		t.Errorf("color_id = %s, want %s", result.ColorID, testColorID)
	}
}

func TestColorDerive_OutPointBound(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "color_derive", map[string]interface{}{
		"metadata":     map[string]string{"name": "Test", "symbol": "TST"},
		"token_type":   "non_reissuable",
		"payment_base": testGenerator,
		"txid":         "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		"index":        7,
	}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}

	var result struct {
		ColorID string `json:"color_id"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatal(err)
	}
	const want = "c22a6cadcd4a5c18c778e86b879ca41d4a552d611bfa8dc8f8e3dda8c9e0ebf0b3"
	if result.ColorID != want {
		t.Errorf("color_id = %s, want %s", result.ColorID, want)
	}
}

func TestColorDecode(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "color_decode", map[string]interface{}{
		"color_id": testColorID,
	}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}

	var result DecodeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.TokenType != "reissuable" || result.Class != 1 {
		t.Errorf("decode = %+v", result)
	}
	if result.ScriptHash != testColorID[2:] {
		t.Errorf("script_hash = %s, want %s", result.ScriptHash, testColorID[2:])
	}

	resp = call(t, s, rpcRequest(t, "color_decode", map[string]interface{}{
		"color_id": "c9" + testColorID[2:],
	}))
	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Errorf("invalid class should fail with invalid params, got %+v", resp.Error)
	}
}

func TestKeyGenerate(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "key_generate", map[string]interface{}{}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}

	var result KeyResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatal(err)
	}
	if words := strings.Fields(result.Mnemonic); len(words) != 24 {
		t.Errorf("mnemonic word count = %d, want 24", len(words))
	}
	if len(result.PaymentBase) != 66 {
		t.Errorf("payment_base length = %d, want 66", len(result.PaymentBase))
	}
}

func TestKeyDerive_Deterministic(t *testing.T) {
	s := startServer(t, testConfig())

	params := map[string]interface{}{
		"mnemonic": testMnemonic,
		"account":  0,
		"index":    2,
	}
	first := call(t, s, rpcRequest(t, "key_derive", params))
	second := call(t, s, rpcRequest(t, "key_derive", params))
	if first.Error != nil || second.Error != nil {
		t.Fatalf("errors: %+v / %+v", first.Error, second.Error)
	}

	var a, b KeyResult
	if err := json.Unmarshal(first.Result, &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second.Result, &b); err != nil {
		t.Fatal(err)
	}
	if a.PaymentBase != b.PaymentBase {
		t.Error("key derivation should be deterministic")
	}
	if a.Mnemonic != "" {
		t.Error("key_derive must not echo the mnemonic back")
	}

	resp := call(t, s, rpcRequest(t, "key_derive", map[string]interface{}{
		"mnemonic": "not a mnemonic",
	}))
	if resp.Error == nil || resp.Error.Code != CodeInvalidParams {
		t.Errorf("invalid mnemonic should fail with invalid params, got %+v", resp.Error)
	}
}

func TestServerGetInfo(t *testing.T) {
	cfg := config.DefaultProd() // explorer enabled, endpoints never dialed
	s := startServer(t, cfg)

	resp := call(t, s, rpcRequest(t, "server_getInfo", map[string]interface{}{}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}

	var result InfoResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.Version != config.Version {
		t.Errorf("version = %s, want %s", result.Version, config.Version)
	}
	if result.Network != "prod" {
		t.Errorf("network = %s, want prod", result.Network)
	}
	if len(result.Networks) != 2 {
		t.Fatalf("networks = %v, want prod and testnet", result.Networks)
	}
	for _, n := range result.Networks {
		if !n.ChainCheck {
			t.Errorf("network %s should have the chain check enabled", n.Name)
		}
	}
}

func TestMethodNotFound(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, rpcRequest(t, "color_forge", map[string]interface{}{}))
	if resp.Error == nil || resp.Error.Code != CodeMethodNotFound {
		t.Errorf("unknown method should fail, got %+v", resp.Error)
	}
}

func TestInvalidEnvelope(t *testing.T) {
	s := startServer(t, testConfig())

	resp := call(t, s, `{"jsonrpc":"1.0","method":"server_getInfo","id":1}`)
	if resp.Error == nil || resp.Error.Code != CodeInvalidRequest {
		t.Errorf("wrong jsonrpc version should fail, got %+v", resp.Error)
	}

	resp = call(t, s, `{not json`)
	if resp.Error == nil || resp.Error.Code != CodeParseError {
		t.Errorf("malformed JSON should fail, got %+v", resp.Error)
	}
}

func TestGetRejected(t *testing.T) {
	s := startServer(t, testConfig())

	resp, err := http.Get("http://" + s.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out testResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Error == nil || out.Error.Code != CodeInvalidRequest {
		t.Errorf("GET should be rejected, got %+v", out.Error)
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := startServer(t, testConfig())

	body := `{"jsonrpc":"2.0","method":"server_getInfo","id":1,"params":{"pad":"` +
		strings.Repeat("a", maxBodySize) + `"}}`
	resp := call(t, s, body)
	if resp.Error == nil || resp.Error.Code != CodeInvalidRequest {
		t.Errorf("oversized body should be rejected, got %+v", resp.Error)
	}
}

func TestIPFilter(t *testing.T) {
	cfg := testConfig()
	cfg.RPC.AllowedIPs = []string{"10.99.0.0/16"} // loopback not allowed
	s := startServer(t, cfg)

	resp, err := http.Post("http://"+s.Addr(), "application/json",
		bytes.NewReader([]byte(`{"jsonrpc":"2.0","method":"server_getInfo","id":1}`)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.RPC.CORSOrigins = []string{"https://wallet.example"}
	s := startServer(t, cfg)

	req, err := http.NewRequest(http.MethodOptions, "http://"+s.Addr(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "https://wallet.example")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://wallet.example" {
		t.Errorf("allow-origin = %q", got)
	}

	// Unlisted origins get no CORS headers.
	req.Header.Set("Origin", "https://evil.example")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if got := resp2.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unlisted origin got allow-origin %q", got)
	}
}

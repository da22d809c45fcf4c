package rpc

import (
	"encoding/json"

	"github.com/chaincolor/colorverd/internal/verify"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeVerifyError    = -32000
	CodeChainError     = -32001
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      interface{}     `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// VerifyParams is used by color_verify.
type VerifyParams struct {
	Metadata    json.RawMessage `json:"metadata"`
	ColorID     string          `json:"color_id"`
	PaymentBase string          `json:"payment_base"`
	TxID        string          `json:"txid,omitempty"`
	Index       uint32          `json:"index,omitempty"`
	Network     string          `json:"network,omitempty"`
}

// DeriveParams is used by color_derive.
type DeriveParams struct {
	Metadata    json.RawMessage `json:"metadata"`
	TokenType   string          `json:"token_type"`
	PaymentBase string          `json:"payment_base"`
	TxID        string          `json:"txid,omitempty"`
	Index       uint32          `json:"index,omitempty"`
}

// DecodeParams is used by color_decode.
type DecodeParams struct {
	ColorID string `json:"color_id"`
}

// KeyGenerateParams is used by key_generate.
type KeyGenerateParams struct {
	Passphrase string `json:"passphrase,omitempty"`
	Account    uint32 `json:"account,omitempty"`
	Index      uint32 `json:"index,omitempty"`
}

// KeyDeriveParams is used by key_derive.
type KeyDeriveParams struct {
	Mnemonic   string `json:"mnemonic"`
	Passphrase string `json:"passphrase,omitempty"`
	Account    uint32 `json:"account,omitempty"`
	Index      uint32 `json:"index,omitempty"`
}

// ── Result types ────────────────────────────────────────────────────────

// StagedError is the error data payload for failed verifications.
type StagedError struct {
	Stage   string         `json:"stage"`
	Detail  string         `json:"detail"`
	Partial *verify.Result `json:"partial,omitempty"`
}

// DecodeResult is returned by color_decode.
type DecodeResult struct {
	ColorID    string `json:"color_id"`
	TokenType  string `json:"token_type"`
	Class      uint8  `json:"class"`
	ScriptHash string `json:"script_hash"`
}

// KeyResult is returned by key_generate and key_derive.
type KeyResult struct {
	Mnemonic    string `json:"mnemonic,omitempty"`
	PaymentBase string `json:"payment_base"`
	Account     uint32 `json:"account"`
	Index       uint32 `json:"index"`
}

// NetworkInfo describes one configured network context.
type NetworkInfo struct {
	Name       string `json:"name"`
	Explorer   string `json:"explorer,omitempty"`
	ChainCheck bool   `json:"chain_check"`
}

// InfoResult is returned by server_getInfo.
type InfoResult struct {
	Version  string        `json:"version"`
	Network  string        `json:"network"`
	Networks []NetworkInfo `json:"networks"`
}

// parseParams unmarshals request params into dst.
func parseParams(req *Request, dst interface{}) *Error {
	if len(req.Params) == 0 {
		return &Error{Code: CodeInvalidParams, Message: "params are required"}
	}
	if err := json.Unmarshal(req.Params, dst); err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params: " + err.Error()}
	}
	return nil
}

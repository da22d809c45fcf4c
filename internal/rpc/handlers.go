package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chaincolor/colorverd/config"
	"github.com/chaincolor/colorverd/internal/chain"
	"github.com/chaincolor/colorverd/internal/colorid"
	"github.com/chaincolor/colorverd/internal/metadata"
	"github.com/chaincolor/colorverd/internal/verify"
	"github.com/chaincolor/colorverd/internal/wallet"
	"github.com/chaincolor/colorverd/pkg/types"
)

// ── Color endpoints ─────────────────────────────────────────────────────

func (s *Server) handleColorVerify(ctx context.Context, req *Request) (interface{}, *Error) {
	var params VerifyParams
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.ColorID == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "color_id is required"}
	}

	claimed, err := colorid.Parse(params.ColorID)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	dreq, rpcErr := buildRequest(claimed.Class(), params.Metadata, params.PaymentBase, params.TxID, params.Index)
	if rpcErr != nil {
		return nil, rpcErr
	}

	verifier, rpcErr := s.verifierFor(params.Network)
	if rpcErr != nil {
		return nil, rpcErr
	}

	result, err := verifier.Verify(ctx, dreq, params.ColorID)
	if err != nil {
		return nil, verifyError(err)
	}

	s.logger.Info().
		Str("color_id", claimed.String()).
		Bool("matched", result.Matched).
		Msg("verification completed")

	return result, nil
}

func (s *Server) handleColorDerive(req *Request) (interface{}, *Error) {
	var params DeriveParams
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.TokenType == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "token_type is required"}
	}

	class, err := colorid.ClassFromTokenType(params.TokenType)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}

	dreq, rpcErr := buildRequest(class, params.Metadata, params.PaymentBase, params.TxID, params.Index)
	if rpcErr != nil {
		return nil, rpcErr
	}

	// Derivation never touches the chain, so any verifier serves.
	verifier, rpcErr := s.verifierFor("")
	if rpcErr != nil {
		return nil, rpcErr
	}

	der, err := verifier.Derive(dreq)
	if err != nil {
		return nil, verifyError(err)
	}
	return der, nil
}

func (s *Server) handleColorDecode(req *Request) (interface{}, *Error) {
	var params DecodeParams
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}

	id, err := colorid.Parse(params.ColorID)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
	}
	scriptHash, err := id.ScriptHash()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	return &DecodeResult{
		ColorID:    id.String(),
		TokenType:  id.Class().String(),
		Class:      uint8(id.Class()),
		ScriptHash: scriptHash.String(),
	}, nil
}

// ── Key endpoints ───────────────────────────────────────────────────────

func (s *Server) handleKeyGenerate(req *Request) (interface{}, *Error) {
	var params KeyGenerateParams
	if len(req.Params) > 0 {
		if rpcErr := parseParams(req, &params); rpcErr != nil {
			return nil, rpcErr
		}
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: err.Error()}
	}

	base, rpcErr := derivePaymentBase(mnemonic, params.Passphrase, params.Account, params.Index)
	if rpcErr != nil {
		return nil, rpcErr
	}

	return &KeyResult{
		Mnemonic:    mnemonic,
		PaymentBase: base,
		Account:     params.Account,
		Index:       params.Index,
	}, nil
}

func (s *Server) handleKeyDerive(req *Request) (interface{}, *Error) {
	var params KeyDeriveParams
	if rpcErr := parseParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if !wallet.ValidateMnemonic(params.Mnemonic) {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid mnemonic"}
	}

	base, rpcErr := derivePaymentBase(params.Mnemonic, params.Passphrase, params.Account, params.Index)
	if rpcErr != nil {
		return nil, rpcErr
	}

	return &KeyResult{
		PaymentBase: base,
		Account:     params.Account,
		Index:       params.Index,
	}, nil
}

func derivePaymentBase(mnemonic, passphrase string, account, index uint32) (string, *Error) {
	master, err := wallet.MasterFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return "", &Error{Code: CodeInternalError, Message: err.Error()}
	}
	key, err := master.DerivePaymentKey(account, index)
	if err != nil {
		return "", &Error{Code: CodeInternalError, Message: err.Error()}
	}
	base, err := key.PaymentBase()
	if err != nil {
		return "", &Error{Code: CodeInternalError, Message: err.Error()}
	}
	return base, nil
}

// ── Server endpoints ────────────────────────────────────────────────────

func (s *Server) handleServerGetInfo(_ *Request) (interface{}, *Error) {
	networks := make([]NetworkInfo, 0, len(s.verifiers))
	for _, network := range config.Networks() {
		endpoint := ""
		if s.cfg.Explorer.Enabled {
			endpoint = s.cfg.Explorer.URL(network)
		}
		networks = append(networks, NetworkInfo{
			Name:       string(network),
			Explorer:   endpoint,
			ChainCheck: endpoint != "",
		})
	}
	return &InfoResult{
		Version:  config.Version,
		Network:  string(s.cfg.Network),
		Networks: networks,
	}, nil
}

// ── Helpers ─────────────────────────────────────────────────────────────

// decodeMetadata parses a raw metadata document preserving number
// literals, so canonical serialization sees exactly what was sent.
func decodeMetadata(raw json.RawMessage) (map[string]any, *Error) {
	if len(raw) == 0 {
		return nil, &Error{Code: CodeInvalidParams, Message: "metadata is required"}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "metadata must be a JSON object: " + err.Error()}
	}
	return m, nil
}

// buildRequest assembles the derivation request variant for a class.
func buildRequest(class colorid.TokenClass, rawMeta json.RawMessage, paymentBase, txid string, index uint32) (verify.DerivationRequest, *Error) {
	meta, rpcErr := decodeMetadata(rawMeta)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if paymentBase == "" {
		return nil, &Error{Code: CodeInvalidParams, Message: "payment_base is required"}
	}

	switch class {
	case colorid.Reissuable:
		if txid != "" {
			return nil, &Error{Code: CodeInvalidParams,
				Message: "txid must not be set for reissuable tokens"}
		}
		return verify.Reissuable{Metadata: meta, PaymentBase: paymentBase}, nil

	case colorid.NonReissuable, colorid.NFT:
		if txid == "" {
			return nil, &Error{Code: CodeInvalidParams,
				Message: fmt.Sprintf("txid is required for token type %q", class)}
		}
		hash, err := types.HexToHash(txid)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: "txid: " + err.Error()}
		}
		return verify.OutPointBound{
			Metadata:    meta,
			PaymentBase: paymentBase,
			OutPoint:    types.OutPoint{TxID: hash, Index: index},
			TokenClass:  class,
		}, nil

	default:
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid token class %d", class)}
	}
}

// verifierFor resolves the verifier for a network name, defaulting to
// the configured network.
func (s *Server) verifierFor(network string) (*verify.Verifier, *Error) {
	name := s.cfg.Network
	if network != "" {
		parsed, err := config.ParseNetwork(network)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: err.Error()}
		}
		name = parsed
	}
	verifier, ok := s.verifiers[name]
	if !ok {
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("unknown network %q", name)}
	}
	return verifier, nil
}

// verifyError maps a staged verification failure to a JSON-RPC error.
func verifyError(err error) *Error {
	var staged *verify.Error
	if !errors.As(err, &staged) {
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}

	code := CodeVerifyError
	var netErr *chain.NetworkError
	if errors.As(staged.Err, &netErr) {
		code = CodeChainError
	}

	data := &StagedError{
		Stage:   staged.Stage.String(),
		Detail:  staged.Err.Error(),
		Partial: staged.Result,
	}

	var schemaErr *metadata.SchemaError
	if errors.As(staged.Err, &schemaErr) {
		return &Error{
			Code:    code,
			Message: "metadata failed schema validation",
			Data: map[string]interface{}{
				"stage":      data.Stage,
				"violations": schemaErr.Violations,
			},
		}
	}

	return &Error{Code: code, Message: staged.Error(), Data: data}
}

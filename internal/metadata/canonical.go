package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/chaincolor/colorverd/pkg/crypto"
	"github.com/chaincolor/colorverd/pkg/types"
)

// CanonicalBytes serializes a validated record into its single
// deterministic byte form: a JSON object with keys sorted byte-wise at
// every nesting level, no whitespace, UTF-8 strings without HTML
// escaping, integers in fixed decimal, and absent fields excluded
// entirely. Two records with the same semantic content always produce
// the same bytes regardless of input ordering.
func CanonicalBytes(r *Record) ([]byte, error) {
	fields := make(map[string]any, 16)
	fields["name"] = r.Name
	fields["symbol"] = r.Symbol
	fields["token_type"] = r.TokenType.String()
	fields["version"] = r.Version

	if r.Decimals != nil {
		fields["decimals"] = *r.Decimals
	}
	if r.Description != "" {
		fields["description"] = r.Description
	}
	if r.Icon != "" {
		fields["icon"] = r.Icon
	}
	if r.Website != "" {
		fields["website"] = r.Website
	}
	if r.Terms != "" {
		fields["terms"] = r.Terms
	}
	if r.Issuer != nil {
		issuer := make(map[string]any, 3)
		if r.Issuer.Name != "" {
			issuer["name"] = r.Issuer.Name
		}
		if r.Issuer.URL != "" {
			issuer["url"] = r.Issuer.URL
		}
		if r.Issuer.Email != "" {
			issuer["email"] = r.Issuer.Email
		}
		fields["issuer"] = issuer
	}
	if r.Image != "" {
		fields["image"] = r.Image
	}
	if r.AnimationURL != "" {
		fields["animation_url"] = r.AnimationURL
	}
	if r.ExternalURL != "" {
		fields["external_url"] = r.ExternalURL
	}
	if r.Attributes != nil {
		fields["attributes"] = r.Attributes
	}

	// Record.Extra is deliberately not serialized: unknown fields are
	// preserved for storage but never digested.

	var buf bytes.Buffer
	if err := writeCanonical(&buf, fields); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest returns SHA256 over the canonical serialization.
func Digest(r *Record) (types.Hash, error) {
	b, err := CanonicalBytes(r)
	if err != nil {
		return types.Hash{}, err
	}
	return crypto.Sha256(b), nil
}

// writeCanonical emits one JSON value in canonical form.
func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		return writeCanonicalString(buf, val)
	case json.Number:
		buf.WriteString(val.String())
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float64:
		// Shortest form that round-trips, locale-independent.
		buf.WriteString(strconv.FormatFloat(val, 'g', -1, 64))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("canonical serialization: unsupported type %T", v)
	}
	return nil
}

// writeCanonicalString emits a JSON string with standard escaping and
// HTML escaping disabled.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode string: %w", err)
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

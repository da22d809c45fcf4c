package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/chaincolor/colorverd/internal/colorid"
)

// absentMarker is the placeholder issue forms emit for a skipped
// optional field. It is treated the same as an empty value.
const absentMarker = "_No response_"

// emailPattern is a minimal local@domain.tld shape, not RFC 5322.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]+$`)

// Violation is a single schema rule failure.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SchemaError reports every violated rule in a metadata submission.
// Validation never stops at the first failure.
type SchemaError struct {
	Violations []Violation
}

func (e *SchemaError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Reason)
	}
	return "metadata schema: " + strings.Join(parts, "; ")
}

// nftOnlyFields are meaningful only for the NFT class and rejected for
// any other class rather than silently dropped.
var nftOnlyFields = []string{"image", "animation_url", "external_url", "attributes"}

// schemaFields is the set of top-level keys the schema defines.
// Anything else is preserved verbatim on Record.Extra.
var schemaFields = map[string]bool{
	"name": true, "symbol": true, "decimals": true, "description": true,
	"icon": true, "website": true, "terms": true, "issuer": true,
	"image": true, "animation_url": true, "external_url": true,
	"attributes": true, "token_type": true, "version": true,
}

// Validate checks a raw parsed-JSON mapping against the schema for the
// given token class and returns a validated Record, or a *SchemaError
// listing every violated rule.
func Validate(raw map[string]any, class colorid.TokenClass) (*Record, error) {
	v := &validator{raw: raw}
	rec := &Record{TokenType: class, Version: SchemaVersion}

	if !class.Valid() {
		v.add("token_type", fmt.Sprintf("invalid token class %d", class))
	}

	rec.Name = v.requiredString("name", MaxNameLen)
	rec.Symbol = v.requiredString("symbol", MaxSymbolLen)
	rec.Decimals = v.optionalInt("decimals", 0, MaxDecimals)
	rec.Description = v.optionalString("description", MaxDescriptionLen)
	rec.Icon = v.optionalHTTPSURL("icon")
	rec.Website = v.optionalHTTPSURL("website")
	rec.Terms = v.optionalHTTPSURL("terms")
	rec.Issuer = v.optionalIssuer("issuer")

	if class == colorid.NFT {
		rec.Image = v.optionalHTTPSURL("image")
		rec.AnimationURL = v.optionalHTTPSURL("animation_url")
		rec.ExternalURL = v.optionalHTTPSURL("external_url")
		rec.Attributes = v.optionalArray("attributes")
	} else {
		for _, field := range nftOnlyFields {
			if _, ok := raw[field]; ok {
				v.add(field, fmt.Sprintf("only allowed for token type %q", colorid.TypeNFT))
			}
		}
	}

	// A declared token_type must agree with the requested class.
	if tt := v.optionalString("token_type", 32); tt != "" {
		declared, err := colorid.ClassFromTokenType(tt)
		if err != nil {
			v.add("token_type", err.Error())
		} else if declared != class {
			v.add("token_type", fmt.Sprintf("declared %q but request is for %q", tt, class))
		}
	}

	// The version tag is fixed; anything else is a different schema.
	if ver := v.optionalString("version", 16); ver != "" && ver != SchemaVersion {
		v.add("version", fmt.Sprintf("unsupported version %q, want %q", ver, SchemaVersion))
	}

	for key, val := range raw {
		if !schemaFields[key] {
			if rec.Extra == nil {
				rec.Extra = make(map[string]any)
			}
			rec.Extra[key] = val
		}
	}

	if len(v.violations) > 0 {
		return nil, &SchemaError{Violations: v.violations}
	}
	return rec, nil
}

// validator accumulates violations while pulling typed fields out of
// the raw mapping.
type validator struct {
	raw        map[string]any
	violations []Violation
}

func (v *validator) add(field, reason string) {
	v.violations = append(v.violations, Violation{Field: field, Reason: reason})
}

// stringValue returns the trimmed string for a field, reporting a type
// violation for non-string values. The second return is false when the
// field is absent or carries the empty/no-response placeholder.
func (v *validator) stringValue(field string) (string, bool) {
	rawVal, ok := v.raw[field]
	if !ok || rawVal == nil {
		return "", false
	}
	s, ok := rawVal.(string)
	if !ok {
		v.add(field, "must be a string")
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" || s == absentMarker {
		return "", false
	}
	return s, true
}

func (v *validator) requiredString(field string, maxLen int) string {
	s, ok := v.stringValue(field)
	if !ok {
		v.add(field, "is required")
		return ""
	}
	if utf8.RuneCountInString(s) > maxLen {
		v.add(field, fmt.Sprintf("exceeds %d characters", maxLen))
	}
	return s
}

func (v *validator) optionalString(field string, maxLen int) string {
	s, ok := v.stringValue(field)
	if !ok {
		return ""
	}
	if utf8.RuneCountInString(s) > maxLen {
		v.add(field, fmt.Sprintf("exceeds %d characters", maxLen))
	}
	return s
}

func (v *validator) optionalHTTPSURL(field string) string {
	s, ok := v.stringValue(field)
	if !ok {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		v.add(field, "must be an absolute URL")
		return ""
	}
	if u.Scheme != "https" {
		v.add(field, fmt.Sprintf("must use the https scheme, got %q", u.Scheme))
		return ""
	}
	return s
}

func (v *validator) optionalEmail(field string, issuer map[string]any) string {
	rawVal, ok := issuer["email"]
	if !ok || rawVal == nil {
		return ""
	}
	s, isStr := rawVal.(string)
	if !isStr {
		v.add(field, "must be a string")
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" || s == absentMarker {
		return ""
	}
	if !emailPattern.MatchString(s) {
		v.add(field, "must be a valid email address")
		return ""
	}
	return s
}

func (v *validator) optionalInt(field string, min, max int) *int {
	rawVal, ok := v.raw[field]
	if !ok || rawVal == nil {
		return nil
	}

	var n int
	switch num := rawVal.(type) {
	case json.Number:
		i, err := num.Int64()
		if err != nil {
			v.add(field, "must be an integer")
			return nil
		}
		n = int(i)
	case float64:
		if num != math.Trunc(num) {
			v.add(field, "must be an integer")
			return nil
		}
		n = int(num)
	case int:
		n = num
	case string:
		s := strings.TrimSpace(num)
		if s == "" || s == absentMarker {
			return nil
		}
		if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
			v.add(field, "must be an integer")
			return nil
		}
	default:
		v.add(field, "must be an integer")
		return nil
	}

	if n < min || n > max {
		v.add(field, fmt.Sprintf("must be in range [%d, %d]", min, max))
		return nil
	}
	return &n
}

func (v *validator) optionalIssuer(field string) *Issuer {
	rawVal, ok := v.raw[field]
	if !ok || rawVal == nil {
		return nil
	}
	obj, isMap := rawVal.(map[string]any)
	if !isMap {
		v.add(field, "must be an object")
		return nil
	}

	iss := &Issuer{}
	if name, ok := obj["name"]; ok && name != nil {
		s, isStr := name.(string)
		if !isStr {
			v.add(field+".name", "must be a string")
		} else if s = strings.TrimSpace(s); s != "" && s != absentMarker {
			iss.Name = s
		}
	}
	if u, ok := obj["url"]; ok && u != nil {
		s, isStr := u.(string)
		if !isStr {
			v.add(field+".url", "must be a string")
		} else if s = strings.TrimSpace(s); s != "" && s != absentMarker {
			parsed, err := url.Parse(s)
			if err != nil || !parsed.IsAbs() || parsed.Host == "" || parsed.Scheme != "https" {
				v.add(field+".url", "must be an absolute https URL")
			} else {
				iss.URL = s
			}
		}
	}
	iss.Email = v.optionalEmail(field+".email", obj)

	if iss.Name == "" && iss.URL == "" && iss.Email == "" {
		return nil
	}
	return iss
}

func (v *validator) optionalArray(field string) []any {
	rawVal, ok := v.raw[field]
	if !ok || rawVal == nil {
		return nil
	}
	arr, isArr := rawVal.([]any)
	if !isArr {
		v.add(field, "must be an ordered array")
		return nil
	}
	return arr
}

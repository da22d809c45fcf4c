package verify

import (
	"fmt"
)

// Stage identifies where in the verification sequence a failure
// occurred. The sequence is strictly single-pass:
// validate → commitment → key derivation → id derivation → compare →
// chain check.
type Stage int

const (
	StageValidate Stage = iota + 1
	StageCommitment
	StageKeyDerivation
	StageIDDerivation
	StageCompare
	StageChainCheck
)

// String returns a stable name for the stage.
func (s Stage) String() string {
	switch s {
	case StageValidate:
		return "validate"
	case StageCommitment:
		return "commitment"
	case StageKeyDerivation:
		return "key_derivation"
	case StageIDDerivation:
		return "id_derivation"
	case StageCompare:
		return "compare"
	case StageChainCheck:
		return "chain_check"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Error is a staged verification failure. Result carries the
// diagnostic values computed before the failure, so callers can show
// expected-vs-derived diffs without re-running the computation.
type Error struct {
	Stage  Stage
	Err    error
	Result *Result
}

func (e *Error) Error() string {
	return fmt.Sprintf("verify %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FormatError reports an input identifier that fails its grammar
// (Color ID, payment base, or txid shape).
type FormatError struct {
	Field string
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

package chatadmin

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the platform client can produce. Callers branch
// on the kind instead of the bare boolean the platform's own responses use.
type Kind int

const (
	// KindAuthentication means the admin login was rejected.
	KindAuthentication Kind = iota + 1
	// KindTransport covers network errors, non-200 responses, and calls
	// the platform accepted but reported as unsuccessful.
	KindTransport
	// KindDerivedToken means minting a delegated token for a target user
	// failed; headers derived from it would be invalid.
	KindDerivedToken
	// KindBadPayload means a 200 response was missing expected fields.
	KindBadPayload
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication failed"
	case KindTransport:
		return "transport failure"
	case KindDerivedToken:
		return "token minting failed"
	case KindBadPayload:
		return "malformed payload"
	default:
		return "unknown failure"
	}
}

// Error tags a failure with the kind and the platform operation that
// produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a tagged error.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

package server

import (
	"errors"
	"fmt"
)

// Kind classifies run failures so callers can tell apart problems where a
// retry might help from problems that need an operator.
type Kind int

const (
	// KindUnknown is the zero value for errors this package did not tag.
	KindUnknown Kind = iota
	// KindConnectivity covers unreachable endpoints, timeouts and other
	// transport-level failures. Retrying later might help.
	KindConnectivity
	// KindMissingInput means the roster document is absent or unreadable.
	KindMissingInput
	// KindServerRejected means the server answered and said no: a non-2xx
	// status or an import response with success=false.
	KindServerRejected
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindMissingInput:
		return "missing input"
	case KindServerRejected:
		return "server rejected"
	default:
		return "unknown"
	}
}

// Error is a failure tagged with its category and the operation that hit it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the category of err, or KindUnknown for untagged errors.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnknown
}

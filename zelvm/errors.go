package zelvm

import (
	"context"
	"errors"
	"fmt"

	"github.com/reusee/zel/zelmethod"
	"github.com/reusee/zel/zelval"
)

var (
	ErrArity     = errors.New("arity error")
	ErrCancelled = errors.New("invocation cancelled")
	ErrMalformed = errors.New("malformed program")
	ErrHost      = errors.New("host error")
	ErrState     = errors.New("invalid execution state")
)

type ErrorKind uint8

const (
	KindHost ErrorKind = iota
	KindType
	KindArithmetic
	KindNoSuchMethod
	KindAmbiguousMethod
	KindArity
	KindCancelled
	KindMalformed
)

var errorKindNames = [...]string{
	KindHost:            "host",
	KindType:            "type",
	KindArithmetic:      "arithmetic",
	KindNoSuchMethod:    "no such method",
	KindAmbiguousMethod: "ambiguous method",
	KindArity:           "arity",
	KindCancelled:       "cancelled",
	KindMalformed:       "malformed",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "unknown"
}

// ExecutionError is the failure of an invocation, located at the faulting instruction.
type ExecutionError struct {
	Kind ErrorKind
	IP   int
	Op   OpCode
	Err  error
}

func (e *ExecutionError) Error() string {
	if e.IP < 0 {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error at %d (%s): %v", e.Kind, e.IP, e.Op, e.Err)
}

func (e *ExecutionError) Unwrap() []error {
	if e.Kind == KindHost {
		return []error{ErrHost, e.Err}
	}
	return []error{e.Err}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	case errors.Is(err, zelval.ErrType):
		return KindType
	case errors.Is(err, zelval.ErrArithmetic):
		return KindArithmetic
	case errors.Is(err, zelmethod.ErrNoSuchMethod):
		return KindNoSuchMethod
	case errors.Is(err, zelmethod.ErrAmbiguousMethod):
		return KindAmbiguousMethod
	case errors.Is(err, ErrArity):
		return KindArity
	case errors.Is(err, ErrMalformed):
		return KindMalformed
	}
	return KindHost
}

func newError(ip int, op OpCode, err error) *ExecutionError {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr
	}
	return &ExecutionError{
		Kind: classify(err),
		IP:   ip,
		Op:   op,
		Err:  err,
	}
}

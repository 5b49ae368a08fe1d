package zelmethod

import (
	"errors"
	"fmt"
)

var (
	ErrNoSuchMethod    = errors.New("no such method")
	ErrAmbiguousMethod = errors.New("ambiguous method")
	ErrIndexOutOfRange = errors.New("index out of range")
)

func errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}

package zelval

import (
	"errors"
	"fmt"
)

var (
	// ErrType reports an operand whose kind does not support the operation.
	ErrType = errors.New("type error")
	// ErrArithmetic reports a mathematically undefined operation, like exact division by zero.
	ErrArithmetic = errors.New("arithmetic error")
)

func errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}

package zelcompiler

import (
	"errors"
	"fmt"

	"github.com/reusee/zel/zelsyntax"
)

var (
	ErrUndeclared   = errors.New("undeclared identifier")
	ErrInvalidParam = errors.New("invalid parameter")
	ErrTooLarge     = errors.New("expression too large")
)

// CompileError reports the first problem found in a source text.
type CompileError struct {
	Pos zelsyntax.Pos
	Msg string
	Err error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error at %s: %s", e.Pos, e.Msg)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func fromSyntax(err error) *CompileError {
	var lexErr *zelsyntax.LexicalError
	if errors.As(err, &lexErr) {
		return &CompileError{
			Pos: lexErr.Pos,
			Msg: lexErr.Msg,
			Err: err,
		}
	}
	var syntaxErr *zelsyntax.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &CompileError{
			Pos: syntaxErr.Pos,
			Msg: fmt.Sprintf("expected %s, found %s", syntaxErr.Expected, syntaxErr.Found),
			Err: err,
		}
	}
	return &CompileError{
		Msg: err.Error(),
		Err: err,
	}
}

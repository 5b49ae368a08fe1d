// Package zel compiles and executes small expressions over named parameters.
package zel

import (
	"context"
	"sync"

	"github.com/reusee/zel/zelcompiler"
	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelval"
	"github.com/reusee/zel/zelvm"
)

type (
	Program = zelvm.Program
	Value   = zelval.Value
)

// Compile compiles src over params. See zelcompiler.Compile for options.
func Compile(src string, params ...string) (*Program, error) {
	return zelcompiler.Compile(src, params)
}

var defaultExecutor = sync.OnceValue(func() *zelvm.Executor {
	return zelvm.NewExecutor(nil, zelsched.Inline{}, nil)
})

// Execute runs program with positional host arguments on the calling goroutine.
func Execute(ctx context.Context, program *Program, args ...any) (Value, error) {
	return defaultExecutor().Execute(ctx, program, args...)
}

// Eval compiles and executes src once.
func Eval(ctx context.Context, src string, params []string, args ...any) (Value, error) {
	program, err := zelcompiler.Compile(src, params)
	if err != nil {
		return zelval.Null, err
	}
	return Execute(ctx, program, args...)
}

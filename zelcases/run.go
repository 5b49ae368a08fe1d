package zelcases

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/reusee/zel/zelcompiler"
	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelval"
	"github.com/reusee/zel/zelvm"
)

var ErrMismatch = errors.New("case mismatch")

// Literal evaluates a parameterless expression, usually a single literal.
func Literal(ctx context.Context, src string) (zelval.Value, error) {
	program, err := zelcompiler.Compile(src, nil)
	if err != nil {
		return zelval.Null, err
	}
	return zelvm.NewExecutor(nil, zelsched.Inline{}, nil).Execute(ctx, program)
}

// ErrorKind names the category of an error as written in suites.
func ErrorKind(err error) string {
	var compileErr *zelcompiler.CompileError
	if errors.As(err, &compileErr) {
		return "compile"
	}
	var execErr *zelvm.ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Kind.String()
	}
	return "host"
}

// Run executes the case and checks its expectation.
func (c *Case) Run(ctx context.Context, executor *zelvm.Executor) (zelval.Value, error) {
	args := make([]any, 0, len(c.Args))
	for _, src := range c.Args {
		v, err := Literal(ctx, src)
		if err != nil {
			return zelval.Null, fmt.Errorf("argument %s: %w", src, err)
		}
		args = append(args, v)
	}

	var policy zelsched.AsyncMembers
	if len(c.Async) > 0 {
		policy = make(zelsched.AsyncMembers)
		for _, member := range c.Async {
			policy[member] = true
		}
	}

	v, err := func() (zelval.Value, error) {
		program, err := zelcompiler.Compile(c.Expr, c.Params,
			zelcompiler.WithName(c.Name),
			zelcompiler.WithAsyncPolicy(policy),
		)
		if err != nil {
			return zelval.Null, err
		}
		return executor.Execute(ctx, program, args...)
	}()

	if c.Error != "" {
		if err == nil {
			return v, fmt.Errorf("%w: expected %s error, got %#v", ErrMismatch, c.Error, v)
		}
		if kind := ErrorKind(err); kind != c.Error {
			return v, fmt.Errorf("%w: expected %s error, got %s: %w", ErrMismatch, c.Error, kind, err)
		}
		return v, nil
	}
	if err != nil {
		return v, err
	}

	expected, err := Literal(ctx, c.Expect)
	if err != nil {
		return v, fmt.Errorf("expectation %s: %w", c.Expect, err)
	}
	if v.Kind() != expected.Kind() || !zelval.Equal(v, expected) {
		return v, fmt.Errorf("%w: expected %#v, got %#v", ErrMismatch, expected, v)
	}
	return v, nil
}

// Run executes every case in order.
func (s *Suite) Run(ctx context.Context, executor *zelvm.Executor) iter.Seq2[*Case, error] {
	return func(yield func(*Case, error) bool) {
		for _, c := range s.Cases {
			_, err := c.Run(ctx, executor)
			if err != nil {
				err = fmt.Errorf("%s: %w", c.Name, err)
			}
			if !yield(c, err) {
				return
			}
		}
	}
}

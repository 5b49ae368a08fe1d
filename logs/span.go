package logs

import (
	"context"
	"errors"
	"fmt"
)

// Span identifies a unit of work, like one expression invocation.
type Span string

type spanKey struct{}

var SpanKey = spanKey{}

func WithSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, SpanKey, span)
}

func SpanOf(ctx context.Context) Span {
	span, _ := ctx.Value(SpanKey).(Span)
	return span
}

// WrapSpan annotates err with the span of ctx, if any.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span := SpanOf(ctx)
	if span == "" {
		return err
	}
	return errors.Join(err, fmt.Errorf("span: %s", span))
}

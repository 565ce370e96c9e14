// Package diagnostics persists the last raw carrier response for debugging.
package diagnostics

import "context"

// Sink receives the raw carrier response of each validation call.
type Sink interface {
	Record(ctx context.Context, raw []byte) error
}

// Nop discards everything.
type Nop struct{}

// Record implements Sink.
func (Nop) Record(context.Context, []byte) error { return nil }

// Func adapts a plain function to Sink.
type Func func(ctx context.Context, raw []byte) error

// Record implements Sink.
func (f Func) Record(ctx context.Context, raw []byte) error { return f(ctx, raw) }

package logger

import (
	"context"
)

// Recover traps panics and displays them using FatalWithStackSkip.
// A FatalError is passed on untouched so the caller can turn it into an exit code.
// Usage: defer logger.Recover(ctx)
func Recover(ctx context.Context) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(FatalError); ok {
		panic(r)
	}

	// We skip 2 frames: Recover + runtime.gopanic
	FatalWithStackSkip(ctx, 2, "panic: %v", r)
}

package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/shaped-ai/relay/pkg/utils/logging"
)

// Dispatch executes a handler function asynchronously in a new goroutine.
// The caller returns immediately: the handler runs on a fresh background
// context (the request context may already be cancelled by then), errors
// are logged and swallowed, and panics are recovered. This is the
// at-most-once, best-effort delivery primitive used for tracking.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	// Detach from the request context but preserve the logger
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}

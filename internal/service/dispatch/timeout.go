package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
)

const DefaultTimeout = 30 * time.Second

type result struct {
	text string
	err  error
}

// WithTimeout runs op under a derived deadline and returns as soon as either op finishes
// or the deadline fires, even when op ignores its context. A late result lands in the
// buffered channel and is dropped.
func WithTimeout(ctx context.Context, provider core.ProviderKind, limit time.Duration, op func(ctx context.Context) (string, error)) (string, error) {
	if limit <= 0 {
		limit = DefaultTimeout
	}

	opCtx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()
		text, err := op(opCtx)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && ctx.Err() == nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			return "", timeoutError(provider, limit)
		}
		return res.text, res.err
	case <-opCtx.Done():
		if err := ctx.Err(); err != nil {
			return "", core.NewError(core.KindNetworkError, provider, err)
		}
		return "", timeoutError(provider, limit)
	}
}

func timeoutError(provider core.ProviderKind, limit time.Duration) error {
	return core.NewError(core.KindUpstreamTimeout, provider, errors.New(TimeoutMessage(provider, limit)))
}

// TimeoutMessage names the provider and the limit, e.g. "Gemini request timed out (30s)".
func TimeoutMessage(provider core.ProviderKind, limit time.Duration) string {
	return fmt.Sprintf("%s request timed out (%s)", provider.DisplayName(), limit)
}

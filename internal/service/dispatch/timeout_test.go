package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ndk123-web/arthpage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutMessage(t *testing.T) {
	assert.Equal(t, "Gemini request timed out (30s)", TimeoutMessage(core.ProviderGemini, DefaultTimeout))
	assert.Equal(t, "Claude request timed out (1m0s)", TimeoutMessage(core.ProviderClaude, time.Minute))
}

func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name     string
		limit    time.Duration
		op       func(ctx context.Context) (string, error)
		want     string
		wantKind core.ErrorKind
	}{
		{
			name:  "success before deadline",
			limit: time.Second,
			op: func(context.Context) (string, error) {
				return "ok", nil
			},
			want: "ok",
		},
		{
			name:  "adapter error passes through",
			limit: time.Second,
			op: func(context.Context) (string, error) {
				return "", core.NewHTTPError(core.ProviderOpenAI, 500, "")
			},
			wantKind: core.KindHTTPError,
		},
		{
			name:  "op honouring ctx reports timeout",
			limit: 20 * time.Millisecond,
			op: func(ctx context.Context) (string, error) {
				<-ctx.Done()
				return "", core.NewError(core.KindNetworkError, core.ProviderOpenAI, ctx.Err())
			},
			wantKind: core.KindUpstreamTimeout,
		},
		{
			name:  "op ignoring ctx is abandoned",
			limit: 20 * time.Millisecond,
			op: func(context.Context) (string, error) {
				time.Sleep(500 * time.Millisecond)
				return "late", nil
			},
			wantKind: core.KindUpstreamTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := WithTimeout(context.Background(), core.ProviderOpenAI, tt.limit, tt.op)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, core.KindOf(err))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithTimeout_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := WithTimeout(ctx, core.ProviderGemini, time.Second, func(ctx context.Context) (string, error) {
		select {}
	})

	require.Error(t, err)
	assert.Equal(t, core.KindNetworkError, core.KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type mockRenderer struct {
	calls int
}

func (m *mockRenderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	m.calls++
	return &provider.Rendering{}, nil
}

func TestRendererWithoutLimit(t *testing.T) {
	r := &mockRenderer{}
	limited := NewRenderer(nil, r)

	_, err := limited.Render(context.Background(), "prompt", nil)
	require.NoError(t, err)
	require.Equal(t, 1, r.calls)
}

func TestRendererWaitCancelled(t *testing.T) {
	r := &mockRenderer{}
	limited := NewRenderer(rate.NewLimiter(rate.Every(time.Hour), 1), r)

	_, err := limited.Render(context.Background(), "prompt", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = limited.Render(ctx, "prompt", nil)
	require.Error(t, err)
	require.Equal(t, 1, r.calls)
}

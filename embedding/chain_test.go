package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingProvider always errors, simulating an unavailable learned model.
type failingProvider struct {
	dimension int
	calls     int
}

func (f *failingProvider) Embed(context.Context, string) ([]float32, error) {
	f.calls++
	return nil, errors.New("onnx session lost")
}

func (f *failingProvider) Dimension() int { return f.dimension }
func (f *failingProvider) Close() error   { return nil }

func TestChain(t *testing.T) {
	ctx := context.Background()

	t.Run("FallsBackOnPrimaryFailure", func(t *testing.T) {
		primary := &failingProvider{dimension: 64}
		fallback := NewHashing(64)
		chain, err := NewChain(primary, fallback, nil)
		require.NoError(t, err)

		vec, err := chain.Embed(ctx, "sustainability report")
		require.NoError(t, err)
		assert.Len(t, vec, 64)
		assert.Equal(t, 1, primary.calls)

		want, _ := fallback.Embed(ctx, "sustainability report")
		assert.Equal(t, want, vec)
	})

	t.Run("PrimaryWinsWhenHealthy", func(t *testing.T) {
		primary := NewHashing(64)
		fallback := NewHashing(64)
		chain, err := NewChain(primary, fallback, nil)
		require.NoError(t, err)

		vec, err := chain.Embed(ctx, "code of conduct")
		require.NoError(t, err)
		want, _ := primary.Embed(ctx, "code of conduct")
		assert.Equal(t, want, vec)
	})

	t.Run("DimensionMismatchRejected", func(t *testing.T) {
		_, err := NewChain(NewHashing(64), NewHashing(128), nil)
		assert.Error(t, err)
	})

	t.Run("CancelledContextNotMaskedByFallback", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		chain, err := NewChain(&failingProvider{dimension: 8}, NewHashing(8), nil)
		require.NoError(t, err)

		_, err = chain.Embed(cancelled, "anything")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

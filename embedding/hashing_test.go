package embedding

import (
	"context"
	"testing"

	"github.com/hupe1980/veridex/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashing(t *testing.T) {
	ctx := context.Background()
	h := NewHashing(384)

	t.Run("Deterministic", func(t *testing.T) {
		a, err := h.Embed(ctx, "Acme pledges carbon neutrality by 2030")
		require.NoError(t, err)
		b, err := h.Embed(ctx, "Acme pledges carbon neutrality by 2030")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("UnitNorm", func(t *testing.T) {
		vec, err := h.Embed(ctx, "ethical sourcing and fair labor practices")
		require.NoError(t, err)
		require.Len(t, vec, 384)
		assert.InDelta(t, 1.0, distance.Norm(vec), 1e-5)
	})

	t.Run("EmptyTextIsZeroVector", func(t *testing.T) {
		for _, text := range []string{"", "   ", "\t\n"} {
			vec, err := h.Embed(ctx, text)
			require.NoError(t, err)
			assert.Equal(t, float32(0), distance.Norm(vec))
		}
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		a, _ := h.Embed(ctx, "Carbon Neutrality")
		b, _ := h.Embed(ctx, "carbon neutrality")
		assert.Equal(t, a, b)
	})

	t.Run("SharedVocabularyScoresHigher", func(t *testing.T) {
		base, _ := h.Embed(ctx, "carbon neutrality pledge for the climate")
		near, _ := h.Embed(ctx, "climate pledge about carbon neutrality")
		far, _ := h.Embed(ctx, "quarterly revenue guidance raised again")

		assert.Greater(t, distance.Dot(base, near), distance.Dot(base, far))
	})

	t.Run("OnlyFirst50WordsCount", func(t *testing.T) {
		prefix := ""
		for i := 0; i < maxHashedWords; i++ {
			prefix += "word "
		}
		a, _ := h.Embed(ctx, prefix+"lawsuit")
		b, _ := h.Embed(ctx, prefix+"sustainability")
		assert.Equal(t, a, b)
	})
}

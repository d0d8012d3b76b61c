package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	a := []float64{0.65, 1.0, 0.55, 0.7, 0.95, 0.75, 0.8}
	b := []float64{0.9, 0.3, 0.4, 0.6, 0.5, 0.8, 0.2}
	zero := make([]float64, 7)

	t.Run("symmetric", func(t *testing.T) {
		ab, err := Cosine(a, b)
		require.NoError(t, err)
		ba, err := Cosine(b, a)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
		assert.Greater(t, ab, 0.0)
		assert.Less(t, ab, 1.0)
	})

	t.Run("self similarity is one", func(t *testing.T) {
		aa, err := Cosine(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, aa, 1e-12)
	})

	t.Run("zero magnitude yields zero", func(t *testing.T) {
		got, err := Cosine(zero, b)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)

		got, err = Cosine(a, zero)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("orthogonal", func(t *testing.T) {
		got, err := Cosine([]float64{1, 0}, []float64{0, 1})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := Cosine(a, b[:6])
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Contains(t, err.Error(), "7 != 6")
	})
}

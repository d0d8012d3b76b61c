package recommend

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch reports vectors of different lengths. It always means
// a vectorization or catalog authoring defect.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Cosine returns the cosine similarity of a and b, or 0 when either has zero
// magnitude. No clamping is applied.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	magA, magB := math.Sqrt(normA), math.Sqrt(normB)
	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (magA * magB), nil
}

package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PairwiseCorrelation computes the Pearson correlation between two
// vectors, truncating both to the shorter length and ignoring
// positions where either value is NaN.
//
// Used identically for firing-rate curves and waveform vectors; the
// scores are only comparable at a fixed vector length per call site.
//
// Returns NaN (never an error) when fewer than 2 valid pairs remain,
// including the empty-input case and the constant-vector case where
// the correlation is undefined.
func PairwiseCorrelation(a, b []float64) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return math.NaN()
	}

	va := make([]float64, 0, n)
	vb := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		va = append(va, a[i])
		vb = append(vb, b[i])
	}

	if len(va) < 2 {
		return math.NaN()
	}

	return stat.Correlation(va, vb, nil)
}

// ArgMaxNaNLow returns the index of the maximum value, treating NaN as
// negative infinity so a NaN score is never preferred over a real one.
// Returns -1 for an empty input or when every value is NaN.
func ArgMaxNaNLow(values []float64) int {
	best := -1
	bestVal := math.Inf(-1)
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if best == -1 || v > bestVal {
			best = i
			bestVal = v
		}
	}
	return best
}

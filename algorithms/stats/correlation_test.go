package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairwiseCorrelationIdentical(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, PairwiseCorrelation(a, a), 1e-12)
}

func TestPairwiseCorrelationAnticorrelated(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{4, 3, 2, 1}
	assert.InDelta(t, -1.0, PairwiseCorrelation(a, b), 1e-12)
}

func TestPairwiseCorrelationSkipsNaNPairs(t *testing.T) {
	a := []float64{1, math.NaN(), 3, 4}
	b := []float64{1, 2, 3, 4}

	corr := PairwiseCorrelation(a, b)
	require.False(t, math.IsNaN(corr))
	assert.InDelta(t, 1.0, corr, 1e-12) // remaining pairs are perfectly linear
}

func TestPairwiseCorrelationTruncatesToShorter(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3, 100, -50}
	assert.InDelta(t, 1.0, PairwiseCorrelation(a, b), 1e-12)
}

func TestPairwiseCorrelationTooFewValidPairs(t *testing.T) {
	a := []float64{math.NaN(), math.NaN(), 1}
	b := []float64{1, 2, 3}
	assert.True(t, math.IsNaN(PairwiseCorrelation(a, b)))
}

func TestPairwiseCorrelationAllNaN(t *testing.T) {
	nan := math.NaN()
	assert.True(t, math.IsNaN(PairwiseCorrelation([]float64{nan, nan}, []float64{nan, nan})))
}

func TestPairwiseCorrelationEmpty(t *testing.T) {
	assert.True(t, math.IsNaN(PairwiseCorrelation(nil, nil)))
	assert.True(t, math.IsNaN(PairwiseCorrelation([]float64{}, []float64{1, 2})))
}

func TestPairwiseCorrelationConstantVector(t *testing.T) {
	a := []float64{5, 5, 5, 5}
	b := []float64{1, 2, 3, 4}
	assert.True(t, math.IsNaN(PairwiseCorrelation(a, b)))
}

func TestArgMaxNaNLow(t *testing.T) {
	assert.Equal(t, 2, ArgMaxNaNLow([]float64{0.1, math.NaN(), 0.9, 0.5}))
	assert.Equal(t, -1, ArgMaxNaNLow(nil))
	assert.Equal(t, -1, ArgMaxNaNLow([]float64{math.NaN(), math.NaN()}))

	// A NaN is never preferred over any real value, however small.
	assert.Equal(t, 1, ArgMaxNaNLow([]float64{math.NaN(), -1e12}))
}

func TestSortSpikesByRT(t *testing.T) {
	rt := []float64{300, 100, 200}
	trials := [][]float64{{10, 20}, {30}, {40, 50, 60}}

	sortedRT, sortedTrials := SortSpikesByRT(rt, trials)

	assert.Equal(t, []float64{100, 200, 300}, sortedRT)
	assert.Equal(t, []float64{30}, sortedTrials[0])
	assert.Equal(t, []float64{40, 50, 60}, sortedTrials[1])
	assert.Equal(t, []float64{10, 20}, sortedTrials[2])
}

func TestSortSpikesByRTNaNLast(t *testing.T) {
	rt := []float64{math.NaN(), 100, 50}
	trials := [][]float64{{1}, {2}, {3}}

	sortedRT, sortedTrials := SortSpikesByRT(rt, trials)

	assert.Equal(t, []float64{50, 100}, sortedRT[:2])
	assert.True(t, math.IsNaN(sortedRT[2]))
	assert.Equal(t, []float64{1}, sortedTrials[2])
}

func TestSortSpikesByRTEmpty(t *testing.T) {
	trials := [][]float64{{1, 2}}
	sortedRT, sortedTrials := SortSpikesByRT(nil, trials)
	assert.Empty(t, sortedRT)
	assert.Equal(t, trials, sortedTrials)
}

func TestRasters(t *testing.T) {
	trials := [][]float64{{10, 20}, {15}}
	x, y := Rasters(trials, -300)

	require.Len(t, x, 3)
	require.Len(t, y, 3)
	assert.Equal(t, []float64{-290, -280, -285}, x)
	assert.InDelta(t, rasterRowSpacing, y[0], 1e-12)
	assert.InDelta(t, 2*rasterRowSpacing, y[2], 1e-12)
}

func TestRastersEmpty(t *testing.T) {
	x, y := Rasters(nil, -300)
	assert.Empty(t, x)
	assert.Empty(t, y)
}

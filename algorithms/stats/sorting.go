package stats

import (
	"math"
	"sort"
)

// SortSpikesByRT sorts per-trial spike rasters by reaction time,
// ascending, with NaN reaction times ordered last. An empty reaction
// time array leaves the raster order unchanged.
func SortSpikesByRT(rt []float64, trials [][]float64) ([]float64, [][]float64) {
	if len(rt) == 0 {
		return nil, trials
	}

	idx := make([]int, len(rt))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := rt[idx[i]], rt[idx[j]]
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})

	sortedRT := make([]float64, len(rt))
	sortedTrials := make([][]float64, len(rt))
	for out, in := range idx {
		sortedRT[out] = rt[in]
		if in < len(trials) {
			sortedTrials[out] = trials[in]
		}
	}
	return sortedRT, sortedTrials
}

// rasterRowSpacing is the vertical spacing between trial rows in
// raster scatter coordinates.
const rasterRowSpacing = 0.08

// Rasters converts per-trial spike times into scatter coordinates:
// x is spike time shifted by the window start, y encodes the trial row.
// Consumed by external plotting; the computation lives here so the
// coordinates match the extraction window exactly.
func Rasters(trials [][]float64, windowStart int) (x, y []float64) {
	for iTr, spikes := range trials {
		for _, s := range spikes {
			x = append(x, s+float64(windowStart))
			y = append(y, float64(iTr+1)*rasterRowSpacing)
		}
	}
	return x, y
}

// Package sorting derives per-unit channel assignments and quality
// groupings from spike-sorter output.
package sorting

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/PesaranB/mind-snag/logging"
	"github.com/PesaranB/mind-snag/recording"
)

const (
	// bestCoverageMin vetoes a best-channel pick whose PC coverage is
	// below this fraction of the unit's spikes.
	bestCoverageMin = 0.5

	// worstCoverageMin vetoes a worst-channel pick the same way, with
	// the additional requirement of non-zero energy among fallbacks.
	worstCoverageMin = 0.1

	// coveragePCs is how many leading principal components count
	// toward coverage.
	coveragePCs = 3
)

// ChannelProfile holds the best (max energy) and worst (min energy)
// channel per unit. Units with no spike data carry channel 0 for
// both; callers must treat that as "no data", not a preference.
type ChannelProfile struct {
	best  map[recording.UnitID]int
	worst map[recording.UnitID]int
	units []recording.UnitID
}

// Best returns the unit's max-energy channel index.
func (p *ChannelProfile) Best(unit recording.UnitID) int {
	return p.best[unit]
}

// Worst returns the unit's min-energy channel index.
func (p *ChannelProfile) Worst(unit recording.UnitID) int {
	return p.worst[unit]
}

// Units returns the profiled units in profiling order.
func (p *ChannelProfile) Units() []recording.UnitID {
	return p.units
}

// Neighbors returns the other profiled units sharing unit's best
// channel, in ascending unit order.
func (p *ChannelProfile) Neighbors(unit recording.UnitID) []recording.UnitID {
	target, ok := p.best[unit]
	if !ok {
		return nil
	}
	var out []recording.UnitID
	for u, ch := range p.best {
		if u != unit && ch == target {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Profiler computes channel profiles from template waveform energy
// weighted by PC feature coverage.
type Profiler struct {
	// alpha weights energy against coverage in the combined score.
	// At the default 1.0, energy decides and coverage acts only as a
	// veto.
	alpha  float64
	logger logging.Logger
}

// NewProfiler creates a profiler with the given energy weight.
func NewProfiler(alpha float64) *Profiler {
	return &Profiler{
		alpha: alpha,
		logger: logging.WithFields(logging.Fields{
			"component": "channel_profiler",
		}),
	}
}

// Profile computes best/worst channels for each unit from its template
// waveform restricted to the unit's local channel subset and the PC
// feature coverage of its spikes.
func (p *Profiler) Profile(sp *recording.SpikeTable, units []recording.UnitID) *ChannelProfile {
	profile := &ChannelProfile{
		best:  make(map[recording.UnitID]int, len(units)),
		worst: make(map[recording.UnitID]int, len(units)),
		units: append([]recording.UnitID(nil), units...),
	}

	for _, unit := range units {
		best, worst := p.profileUnit(sp, unit)
		profile.best[unit] = best
		profile.worst[unit] = worst
	}

	return profile
}

func (p *Profiler) profileUnit(sp *recording.SpikeTable, unit recording.UnitID) (best, worst int) {
	spikes := sp.UnitSpikeIndexes(unit)
	if len(spikes) == 0 {
		p.logger.Debug("unit has no spikes, assigning sentinel channel", logging.Fields{
			"unit": unit,
		})
		return 0, 0
	}

	tmpl := int(unit) - 1
	if tmpl < 0 || tmpl >= len(sp.Templates) || len(sp.Templates[tmpl]) == 0 {
		p.logger.Warn("unit has no template waveform, assigning sentinel channel", logging.Fields{
			"unit": unit,
		})
		return 0, 0
	}
	template := sp.Templates[tmpl]

	localChans := p.localChannels(sp, tmpl, len(template[0]))
	if len(localChans) == 0 {
		return 0, 0
	}

	energy := channelEnergy(template, localChans)
	coverage := p.coverage(sp, tmpl, spikes, len(localChans))

	// Normalize both to [0, 1], guarding all-zero maxima.
	maxEnergy := floats.Max(energy)
	if maxEnergy <= 0 {
		maxEnergy = 1.0
	}
	maxCoverage := floats.Max(coverage)
	if maxCoverage <= 0 {
		maxCoverage = 1.0
	}

	combined := make([]float64, len(localChans))
	for i := range combined {
		combined[i] = p.alpha*(energy[i]/maxEnergy) + (1-p.alpha)*(coverage[i]/maxCoverage)
	}

	bestIdx := floats.MaxIdx(combined)
	if coverage[bestIdx] < bestCoverageMin {
		if idx, ok := restrictedMax(combined, coverage, bestCoverageMin); ok {
			bestIdx = idx
		}
	}

	worstIdx := floats.MinIdx(energy)
	if coverage[worstIdx] < worstCoverageMin {
		if idx, ok := restrictedMin(energy, coverage, worstCoverageMin); ok {
			worstIdx = idx
		}
	}

	return localChans[bestIdx], localChans[worstIdx]
}

// localChannels returns the unit's local channel subset, falling back
// to the full template channel range when the PC feature index table
// does not cover this unit.
func (p *Profiler) localChannels(sp *recording.SpikeTable, tmpl, nChans int) []int {
	if tmpl < len(sp.PCFeatureIndex) && len(sp.PCFeatureIndex[tmpl]) > 0 {
		return sp.PCFeatureIndex[tmpl]
	}
	chans := make([]int, nChans)
	for i := range chans {
		chans[i] = i
	}
	return chans
}

// coverage returns, per local channel, the fraction of the unit's
// spikes whose leading PC feature vector on that channel is non-zero.
// Units outside the PC feature tables get zero coverage everywhere.
func (p *Profiler) coverage(sp *recording.SpikeTable, tmpl int, spikes []int, nLocal int) []float64 {
	cov := make([]float64, nLocal)
	if sp.PCFeatures == nil || tmpl >= len(sp.PCFeatureIndex) {
		return cov
	}

	for ch := 0; ch < nLocal; ch++ {
		nonZero := 0
		for _, si := range spikes {
			if si >= len(sp.PCFeatures) {
				continue
			}
			feat := sp.PCFeatures[si]
			nPCs := min(coveragePCs, len(feat))
			for pc := 0; pc < nPCs; pc++ {
				if ch < len(feat[pc]) && feat[pc][ch] != 0 {
					nonZero++
					break
				}
			}
		}
		cov[ch] = float64(nonZero) / float64(len(spikes))
	}
	return cov
}

func channelEnergy(template [][]float64, localChans []int) []float64 {
	energy := make([]float64, len(localChans))
	for c, ch := range localChans {
		for _, sample := range template {
			if ch < 0 || ch >= len(sample) {
				continue
			}
			energy[c] += sample[ch] * sample[ch]
		}
	}
	return energy
}

// restrictedMax returns the argmax of score among channels with
// coverage at or above threshold; ok is false when none qualify.
func restrictedMax(score, coverage []float64, threshold float64) (int, bool) {
	best, found := -1, false
	for i := range score {
		if coverage[i] < threshold {
			continue
		}
		if !found || score[i] > score[best] {
			best, found = i, true
		}
	}
	return best, found
}

// restrictedMin returns the argmin of energy among channels with
// coverage at or above threshold and strictly positive energy.
func restrictedMin(energy, coverage []float64, threshold float64) (int, bool) {
	best, found := -1, false
	for i := range energy {
		if coverage[i] < threshold || energy[i] <= 0 {
			continue
		}
		if !found || energy[i] < energy[best] {
			best, found = i, true
		}
	}
	return best, found
}

package sorting

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/PesaranB/mind-snag/recording"
)

// IsolationFrame holds per-time-window isolation metrics for one unit:
// its PC feature amplitudes on the best channel against the noise
// floor on its worst channel.
type IsolationFrame struct {
	Unit    recording.UnitID
	CluWf   []float64
	NoiseWf []float64

	// UnitFeat and NoiseFeat are per-spike leading PC amplitudes,
	// [spike][pc]. Empty when no spikes fell in the window.
	UnitFeat  [][]float64
	NoiseFeat [][]float64

	MeanSpikeAmp []float64
	MeanNoiseAmp []float64
	SDNoiseAmp   []float64

	// Score is |meanSpike - meanNoise| / sdNoise on the first PC,
	// zero when the noise floor has no variance.
	Score float64

	// HasSpikes reports whether any spikes fell in this window.
	HasSpikes bool
}

// IsolationFrames segments the recording into windowSec windows and
// computes one frame per window for the unit. The best and worst
// channels come from the profile; units without spikes or without a
// best-channel assignment yield a single empty frame.
func IsolationFrames(sp *recording.SpikeTable, unit recording.UnitID, profile *ChannelProfile, windowSec float64) []IsolationFrame {
	spikes := sp.UnitSpikeIndexes(unit)
	if len(spikes) == 0 {
		return []IsolationFrame{{Unit: unit}}
	}

	bestCh := profile.Best(unit)
	worstCh := profile.Worst(unit)

	cluWf := sp.TemplateWaveform(unit, bestCh)
	noiseWf := sp.TemplateWaveform(unit, worstCh)

	unitAmps := pcAmplitudes(sp, unit, spikes, bestCh)
	noiseAmps := pcAmplitudes(sp, unit, spikes, worstCh)

	// Spike times in seconds for segmentation.
	times := make([]float64, len(spikes))
	maxTime := 0.0
	for i, si := range spikes {
		times[i] = sp.Times[si] / sp.SampleRate
		if times[i] > maxTime {
			maxTime = times[i]
		}
	}

	nFrames := int(math.Ceil(maxTime / windowSec))
	if nFrames == 0 {
		return []IsolationFrame{{
			Unit:      unit,
			CluWf:     cluWf,
			NoiseWf:   noiseWf,
			UnitFeat:  unitAmps,
			NoiseFeat: noiseAmps,
		}}
	}

	frames := make([]IsolationFrame, 0, nFrames)
	for f := 0; f < nFrames; f++ {
		lo := float64(f) * windowSec
		hi := float64(f+1) * windowSec

		frame := IsolationFrame{
			Unit:    unit,
			CluWf:   cluWf,
			NoiseWf: noiseWf,
		}

		for i, t := range times {
			if t >= lo && t <= hi {
				frame.UnitFeat = append(frame.UnitFeat, unitAmps[i])
				frame.NoiseFeat = append(frame.NoiseFeat, noiseAmps[i])
			}
		}

		if len(frame.UnitFeat) > 0 {
			frame.HasSpikes = true
			frame.MeanSpikeAmp = columnMeans(frame.UnitFeat)
			frame.MeanNoiseAmp = columnMeans(frame.NoiseFeat)
			frame.SDNoiseAmp = columnStdDevs(frame.NoiseFeat)
			if frame.SDNoiseAmp[0] > 0 {
				frame.Score = math.Abs(frame.MeanSpikeAmp[0]-frame.MeanNoiseAmp[0]) / frame.SDNoiseAmp[0]
			}
		}

		frames = append(frames, frame)
	}
	return frames
}

// pcAmplitudes extracts the leading PC features of each spike on the
// given template channel, scaled by the per-spike template amplitude.
// Channels outside the unit's local subset yield zeros.
func pcAmplitudes(sp *recording.SpikeTable, unit recording.UnitID, spikes []int, channel int) [][]float64 {
	out := make([][]float64, len(spikes))
	for i := range out {
		out[i] = make([]float64, coveragePCs)
	}

	tmpl := int(unit) - 1
	if sp.PCFeatures == nil || tmpl < 0 || tmpl >= len(sp.PCFeatureIndex) {
		return out
	}

	localIdx := -1
	for j, ch := range sp.PCFeatureIndex[tmpl] {
		if ch == channel {
			localIdx = j
			break
		}
	}
	if localIdx < 0 {
		return out
	}

	for i, si := range spikes {
		if si >= len(sp.PCFeatures) {
			continue
		}
		amp := 1.0
		if sp.TempScalingAmps != nil && si < len(sp.TempScalingAmps) {
			amp = sp.TempScalingAmps[si]
		}
		feat := sp.PCFeatures[si]
		nPCs := min(coveragePCs, len(feat))
		for pc := 0; pc < nPCs; pc++ {
			if localIdx < len(feat[pc]) {
				out[i][pc] = feat[pc][localIdx] * amp
			}
		}
	}
	return out
}

func columnMeans(rows [][]float64) []float64 {
	means := make([]float64, len(rows[0]))
	col := make([]float64, len(rows))
	for c := range means {
		for r := range rows {
			col[r] = rows[r][c]
		}
		means[c] = stat.Mean(col, nil)
	}
	return means
}

// columnStdDevs is the population standard deviation per column.
func columnStdDevs(rows [][]float64) []float64 {
	sds := make([]float64, len(rows[0]))
	col := make([]float64, len(rows))
	for c := range sds {
		mean := 0.0
		for r := range rows {
			col[r] = rows[r][c]
			mean += col[r]
		}
		mean /= float64(len(col))
		ss := 0.0
		for _, v := range col {
			d := v - mean
			ss += d * d
		}
		sds[c] = math.Sqrt(ss / float64(len(col)))
	}
	return sds
}

package stitch

import (
	"sync"

	"github.com/PesaranB/mind-snag/algorithms/psth"
	"github.com/PesaranB/mind-snag/algorithms/stats"
	"github.com/PesaranB/mind-snag/config"
	"github.com/PesaranB/mind-snag/logging"
	"github.com/PesaranB/mind-snag/recording"
	"github.com/PesaranB/mind-snag/sorting"
	"github.com/PesaranB/mind-snag/trials"
)

// FeatureSource supplies the two per-unit features the stitcher
// correlates. Implementations return NaN-filled vectors when a feature
// cannot be computed; the correlation step treats those as missing.
type FeatureSource interface {
	// Waveform returns the unit's template waveform on its best
	// channel.
	Waveform(rec recording.RecordingID, unit recording.UnitID) []float64

	// FiringRate returns the unit's smoothed trial-pooled firing rate
	// curve.
	FiringRate(rec recording.RecordingID, unit recording.UnitID) []float64
}

// PipelineFeatureSource derives features from raw data: firing rates
// from trial-aligned rasters sorted by reaction time and smoothed into
// a rate curve, waveforms from the sorter templates at each unit's
// best channel.
type PipelineFeatureSource struct {
	Spikes    recording.SpikeProvider
	Extractor *trials.Extractor

	// Trials holds each recording's behavioral trials.
	Trials map[recording.RecordingID][]recording.Trial

	// Profiles holds each recording's channel profile for best-channel
	// waveform lookup.
	Profiles map[recording.RecordingID]*sorting.ChannelProfile

	Day       string
	Window    config.Window
	Smoothing float64

	logger logging.Logger
	est    *psth.Estimator
	once   sync.Once
}

func (p *PipelineFeatureSource) init() {
	p.once.Do(func() {
		p.est = psth.New(p.Smoothing)
		p.logger = logging.WithFields(logging.Fields{
			"component": "feature_source",
		})
	})
}

// Waveform returns the unit's template at its best channel, or NaN
// when the recording's spike table or profile is unavailable.
func (p *PipelineFeatureSource) Waveform(rec recording.RecordingID, unit recording.UnitID) []float64 {
	p.init()

	sp, err := p.Spikes.Spikes(p.Day, rec)
	if err != nil {
		p.logger.Debug("no spike table for waveform", logging.Fields{
			"rec": rec, "unit": unit,
		})
		return recording.NaNVector(recording.WaveformSamples)
	}
	profile, ok := p.Profiles[rec]
	if !ok {
		return recording.NaNVector(recording.WaveformSamples)
	}
	return sp.TemplateWaveform(unit, profile.Best(unit))
}

// FiringRate pools the unit's trial-aligned spikes across tasks,
// orders trials by reaction time and smooths the pooled histogram into
// a rate curve. Units with no spikes in any trial yield NaN.
func (p *PipelineFeatureSource) FiringRate(rec recording.RecordingID, unit recording.UnitID) []float64 {
	p.init()

	trs := p.Trials[rec]
	if len(trs) == 0 {
		return recording.NaNVector(p.Window.Len())
	}

	var neighbors []recording.UnitID
	if profile, ok := p.Profiles[rec]; ok {
		neighbors = profile.Neighbors(unit)
	}

	data := p.Extractor.ExtractRasters(trs, unit, neighbors)
	if !hasSpikes(data.Spikes) {
		return recording.NaNVector(p.Window.Len())
	}

	_, sorted := stats.SortSpikesByRT(data.RT, data.Spikes)
	rate, _ := p.est.Rate(sorted, p.Window)
	return rate
}

func hasSpikes(trialSpikes [][]float64) bool {
	for _, s := range trialSpikes {
		if len(s) > 0 {
			return true
		}
	}
	return false
}

type featureKey struct {
	rec  recording.RecordingID
	unit recording.UnitID
}

// CachedFeatureSource memoizes an underlying source. Feature vectors
// are computed once per (recording, unit) and shared; callers must not
// mutate returned slices.
type CachedFeatureSource struct {
	Source FeatureSource

	mu    sync.Mutex
	wfs   map[featureKey][]float64
	rates map[featureKey][]float64
}

// NewCachedFeatureSource wraps source with memoization.
func NewCachedFeatureSource(source FeatureSource) *CachedFeatureSource {
	return &CachedFeatureSource{
		Source: source,
		wfs:    make(map[featureKey][]float64),
		rates:  make(map[featureKey][]float64),
	}
}

func (c *CachedFeatureSource) Waveform(rec recording.RecordingID, unit recording.UnitID) []float64 {
	key := featureKey{rec, unit}
	c.mu.Lock()
	if wf, ok := c.wfs[key]; ok {
		c.mu.Unlock()
		return wf
	}
	c.mu.Unlock()

	wf := c.Source.Waveform(rec, unit)

	c.mu.Lock()
	c.wfs[key] = wf
	c.mu.Unlock()
	return wf
}

func (c *CachedFeatureSource) FiringRate(rec recording.RecordingID, unit recording.UnitID) []float64 {
	key := featureKey{rec, unit}
	c.mu.Lock()
	if r, ok := c.rates[key]; ok {
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	r := c.Source.FiringRate(rec, unit)

	c.mu.Lock()
	c.rates[key] = r
	c.mu.Unlock()
	return r
}

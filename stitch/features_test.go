package stitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PesaranB/mind-snag/config"
	"github.com/PesaranB/mind-snag/recording"
	"github.com/PesaranB/mind-snag/sorting"
	"github.com/PesaranB/mind-snag/trials"
)

func pipelineFixture(t *testing.T) *PipelineFeatureSource {
	t.Helper()

	const fs = recording.SampleRate
	template := make([][]float64, recording.WaveformSamples)
	for i := range template {
		template[i] = []float64{0, float64(i) * 0.1}
	}

	// Unit 1 spikes shortly after the 1000ms event in both trials.
	sp := &recording.SpikeTable{
		Times: []float64{
			1010 * fs / 1000, 1020 * fs / 1000, 1015 * fs / 1000,
		},
		Units:      []recording.UnitID{1, 1, 1},
		SampleRate: fs,
		Templates:  [][][]float64{template},
		PCFeatureIndex: [][]int{
			{0, 1},
		},
	}
	spikes := recording.StaticSpikes{"001": sp}
	events := recording.StaticEvents{"001": recording.NewEventTable(map[string][]float64{
		"TargsOn": {1000, 1000},
	})}

	profiler := sorting.NewProfiler(1.0)
	profile := profiler.Profile(sp, []recording.UnitID{1})

	trs := []recording.Trial{
		{Day: "240101", Rec: "001", Index: 1, TaskType: "delayed_saccade"},
		{Day: "240101", Rec: "001", Index: 2, TaskType: "delayed_saccade"},
	}

	return &PipelineFeatureSource{
		Spikes:    spikes,
		Extractor: trials.NewExtractor(spikes, events),
		Trials:    map[recording.RecordingID][]recording.Trial{"001": trs},
		Profiles:  map[recording.RecordingID]*sorting.ChannelProfile{"001": profile},
		Day:       "240101",
		Window:    config.Window{Start: -300, Stop: 500},
		Smoothing: 10,
	}
}

func TestPipelineFiringRate(t *testing.T) {
	p := pipelineFixture(t)

	rate := p.FiringRate("001", 1)

	require.Len(t, rate, 801)
	sum := 0.0
	for _, v := range rate {
		require.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.Greater(t, sum, 0.0)
}

func TestPipelineFiringRateUnknownRecording(t *testing.T) {
	p := pipelineFixture(t)

	rate := p.FiringRate("999", 1)

	require.Len(t, rate, 801)
	assert.True(t, math.IsNaN(rate[0]))
}

func TestPipelineFiringRateSilentUnit(t *testing.T) {
	p := pipelineFixture(t)

	rate := p.FiringRate("001", 5)

	require.Len(t, rate, 801)
	assert.True(t, math.IsNaN(rate[400]))
}

func TestPipelineWaveform(t *testing.T) {
	p := pipelineFixture(t)

	wf := p.Waveform("001", 1)

	require.Len(t, wf, recording.WaveformSamples)
	// Best channel is 1, where the template ramps up.
	assert.InDelta(t, 0.0, wf[0], 1e-12)
	assert.Greater(t, wf[recording.WaveformSamples-1], 0.0)
}

func TestPipelineWaveformUnknownRecording(t *testing.T) {
	p := pipelineFixture(t)

	wf := p.Waveform("999", 1)

	require.Len(t, wf, recording.WaveformSamples)
	assert.True(t, math.IsNaN(wf[0]))
}

type countingFeatures struct {
	wfCalls, rateCalls int
}

func (c *countingFeatures) Waveform(rec recording.RecordingID, unit recording.UnitID) []float64 {
	c.wfCalls++
	return []float64{1, 2, 3}
}

func (c *countingFeatures) FiringRate(rec recording.RecordingID, unit recording.UnitID) []float64 {
	c.rateCalls++
	return []float64{4, 5, 6}
}

func TestCachedFeatureSourceMemoizes(t *testing.T) {
	inner := &countingFeatures{}
	cached := NewCachedFeatureSource(inner)

	for i := 0; i < 3; i++ {
		cached.Waveform("001", 1)
		cached.FiringRate("001", 1)
	}
	cached.Waveform("002", 1)

	assert.Equal(t, 2, inner.wfCalls)
	assert.Equal(t, 1, inner.rateCalls)
}

package trials

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PesaranB/mind-snag/config"
	"github.com/PesaranB/mind-snag/recording"
)

const fs = recording.SampleRate

// samples converts ms to sample counts.
func samples(ms float64) float64 { return ms * fs / 1000.0 }

func testProviders(eventMs []float64) (recording.StaticSpikes, recording.StaticEvents) {
	// Unit 1 spikes at 1000ms, 1100ms, 1500ms and 5000ms.
	sp := &recording.SpikeTable{
		Times: []float64{
			samples(1000), samples(1100), samples(1500), samples(5000),
		},
		Units:      []recording.UnitID{1, 1, 1, 1},
		SampleRate: fs,
	}
	ev := recording.NewEventTable(map[string][]float64{
		"TargsOn": eventMs,
	})
	return recording.StaticSpikes{"001": sp}, recording.StaticEvents{"001": ev}
}

func coTrials(n int) []recording.Trial {
	trs := make([]recording.Trial, n)
	for i := range trs {
		trs[i] = recording.Trial{
			Day:      "240101",
			Rec:      "001",
			Index:    i + 1,
			TaskType: "delayed_saccade",
		}
	}
	return trs
}

func TestAlignedSpikesWindow(t *testing.T) {
	sp, ev := testProviders([]float64{1000})
	e := NewExtractor(sp, ev)

	got, err := e.AlignedSpikes(coTrials(1), 1, "TargsOn", config.Window{Start: -300, Stop: 500})
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Spikes at 1000 and 1100ms fall in [700, 1500]; 1500 does too
	// (inclusive stop edge); 5000 does not.
	assert.InDeltaSlice(t, []float64{0, 100, 500}, got[0], 1e-9)
}

func TestAlignedSpikesZeroEventSkipped(t *testing.T) {
	sp, ev := testProviders([]float64{0, math.NaN(), 1000})
	e := NewExtractor(sp, ev)

	got, err := e.AlignedSpikes(coTrials(3), 1, "TargsOn", config.Window{Start: -300, Stop: 500})
	require.NoError(t, err)

	assert.Empty(t, got[0])
	assert.Empty(t, got[1])
	assert.NotEmpty(t, got[2])
}

func TestAlignedSpikesMissingRecording(t *testing.T) {
	sp, ev := testProviders([]float64{1000})
	e := NewExtractor(sp, ev)

	trs := coTrials(1)
	trs[0].Rec = "999"

	got, err := e.AlignedSpikes(trs, 1, "TargsOn", config.Window{Start: -300, Stop: 500})
	require.NoError(t, err)
	assert.Empty(t, got[0])
}

func TestAlignedSpikesAbsentFieldErrors(t *testing.T) {
	sp, ev := testProviders([]float64{1000})
	e := NewExtractor(sp, ev)

	_, err := e.AlignedSpikes(coTrials(1), 1, "disGo", config.Window{Start: -300, Stop: 500})
	require.ErrorIs(t, err, recording.ErrFieldAbsent)
}

func TestAlignedSpikesTrialIndexOutOfRange(t *testing.T) {
	sp, ev := testProviders([]float64{1000})
	e := NewExtractor(sp, ev)

	trs := coTrials(1)
	trs[0].Index = 7

	got, err := e.AlignedSpikes(trs, 1, "TargsOn", config.Window{Start: -300, Stop: 500})
	require.NoError(t, err)
	assert.Empty(t, got[0])
}

func TestCategorize(t *testing.T) {
	trs := []recording.Trial{
		{TaskType: "delayed_saccade"},
		{TaskType: "luminance_reward_selection"},
		{TaskType: "delayed_reach"},
		{TaskType: ""},
		{TaskType: "unknown_task"},
	}

	buckets := Categorize(trs)

	assert.Len(t, buckets["CO"], 1)
	assert.Len(t, buckets["Lum"], 1)
	// Legacy trials without a task type fold into Reach.
	assert.Len(t, buckets["Reach"], 2)
	total := 0
	for _, b := range buckets {
		total += len(b)
	}
	assert.Equal(t, 4, total)
}

func TestReactionTimes(t *testing.T) {
	trs := []recording.Trial{
		{Events: map[string]float64{"SaccStart": 1250, "TargsOn": 1000}},
		{Events: map[string]float64{"TargsOn": 1000}},
	}

	rt := ReactionTimes(trs, "SaccStart", "TargsOn")

	require.Len(t, rt, 2)
	assert.InDelta(t, 250, rt[0], 1e-9)
	assert.True(t, math.IsNaN(rt[1]))

	assert.Nil(t, ReactionTimes(trs, "", "TargsOn"))
}

func TestTaskRastersFallback(t *testing.T) {
	// CO's primary event TargsOn is absent; the table has only the
	// fallback field disTargsOn.
	sp := recording.StaticSpikes{"001": &recording.SpikeTable{
		Times:      []float64{samples(1000)},
		Units:      []recording.UnitID{1},
		SampleRate: fs,
	}}
	ev := recording.StaticEvents{"001": recording.NewEventTable(map[string][]float64{
		"disTargsOn": {1000},
	})}
	e := NewExtractor(sp, ev)

	trs := coTrials(1)
	trs[0].Events = map[string]float64{"SaccStart": 1300, "disTargsOn": 1000}

	var co TaskType
	for _, tt := range TaskTypes {
		if tt.Name == "CO" {
			co = tt
		}
	}

	spikes, rt := e.TaskRasters(trs, 1, co)

	require.Len(t, spikes, 1)
	assert.InDeltaSlice(t, []float64{0}, spikes[0], 1e-9)
	require.Len(t, rt, 1)
	assert.InDelta(t, 300, rt[0], 1e-9)
}

func TestTaskRastersNoFallbackDegrades(t *testing.T) {
	sp := recording.StaticSpikes{"001": &recording.SpikeTable{
		Times:      []float64{samples(1000)},
		Units:      []recording.UnitID{1},
		SampleRate: fs,
	}}
	ev := recording.StaticEvents{"001": recording.NewEventTable(map[string][]float64{
		"TargsOn": {1000},
	})}
	e := NewExtractor(sp, ev)

	trs := coTrials(2)
	var reach TaskType
	for _, tt := range TaskTypes {
		if tt.Name == "Reach" {
			reach = tt
		}
	}

	spikes, rt := e.TaskRasters(trs, 1, reach)

	require.Len(t, spikes, 2)
	assert.Empty(t, spikes[0])
	assert.Empty(t, spikes[1])
	require.Len(t, rt, 2)
	assert.True(t, math.IsNaN(rt[0]))
	assert.True(t, math.IsNaN(rt[1]))
}

func TestExtractRastersPoolsTasks(t *testing.T) {
	sp, ev := testProviders([]float64{1000, 1000})
	e := NewExtractor(sp, ev)

	trs := coTrials(2)
	for i := range trs {
		trs[i].Events = map[string]float64{"SaccStart": 1200, "TargsOn": 1000}
	}

	data := e.ExtractRasters(trs, 1, []recording.UnitID{4})

	assert.Equal(t, recording.UnitID(1), data.Unit)
	require.Len(t, data.Spikes, 2)
	assert.Len(t, data.RT, 2)
	assert.Equal(t, []recording.UnitID{4}, data.Neighbors)
}

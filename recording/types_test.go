package recording

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitSpikeIndexes(t *testing.T) {
	sp := &SpikeTable{
		Times: []float64{10, 20, 30, 40},
		Units: []UnitID{1, 2, 1, 3},
	}

	assert.Equal(t, []int{0, 2}, sp.UnitSpikeIndexes(1))
	assert.Empty(t, sp.UnitSpikeIndexes(9))
}

func TestTemplateWaveformOutOfBounds(t *testing.T) {
	sp := &SpikeTable{
		Templates: [][][]float64{
			{{1, 2}, {3, 4}},
		},
	}

	wf := sp.TemplateWaveform(1, 1)
	assert.Equal(t, []float64{2, 4}, wf)

	// Unknown unit and unknown channel both degrade to NaN.
	for _, wf := range [][]float64{
		sp.TemplateWaveform(5, 0),
		sp.TemplateWaveform(1, 7),
	} {
		require.NotEmpty(t, wf)
		assert.True(t, math.IsNaN(wf[0]))
	}
}

func TestEventTableField(t *testing.T) {
	tab := NewEventTable(map[string][]float64{
		"TargsOn": {100, 200},
	})

	got, err := tab.Field("TargsOn")
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200}, got)

	_, err = tab.Field("disGo")
	assert.ErrorIs(t, err, ErrFieldAbsent)
}

func TestParseQuality(t *testing.T) {
	assert.Equal(t, QualityGood, ParseQuality(" Good "))
	assert.Equal(t, QualityNoise, ParseQuality("noise"))
	assert.Equal(t, QualityMultiUnit, ParseQuality("mua"))
}

func TestDecodeMatrixVariant(t *testing.T) {
	raw := &RawSpikes{Matrix: [][]float64{{100, 1}, {200, 2}}}

	times, units, err := raw.Decode()
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200}, times)
	assert.Equal(t, []UnitID{1, 2}, units)
}

func TestDecodeColumnVariant(t *testing.T) {
	raw := &RawSpikes{Times: []float64{100, 200}, Units: []int64{1, 2}}

	times, units, err := raw.Decode()
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 200}, times)
	assert.Equal(t, []UnitID{1, 2}, units)
}

func TestDecodeRejectsBadShapes(t *testing.T) {
	cases := map[string]*RawSpikes{
		"both variants":   {Matrix: [][]float64{{1, 1}}, Times: []float64{1}},
		"no variant":      {},
		"ragged row":      {Matrix: [][]float64{{1, 1, 1}}},
		"length mismatch": {Times: []float64{1, 2}, Units: []int64{1}},
	}
	for name, raw := range cases {
		_, _, err := raw.Decode()
		assert.Error(t, err, name)
	}
}

func TestNewSpikeTable(t *testing.T) {
	raw := &RawSpikes{Matrix: [][]float64{{100, 1}}}

	sp, err := NewSpikeTable(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, SampleRate, sp.SampleRate)
	assert.Equal(t, []UnitID{1}, sp.Units)
}

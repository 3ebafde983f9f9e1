// Package recording defines the canonical in-memory data model the
// pipeline computes over, together with the provider interfaces that
// supply it. File formats and loaders live outside the core; whatever
// shape the data arrives in is normalized into these types first.
package recording

import (
	"math"
	"strings"
)

// SampleRate is the Neuropixel acquisition rate in Hz.
const SampleRate = 30000.0

// UnitID identifies one sorted unit (cluster) within a recording.
// IDs are 1-indexed; 0 never identifies a real unit.
type UnitID int64

// RecordingID identifies one recording within a day (e.g. "007").
type RecordingID string

// Quality is the sorter's coarse cluster label.
type Quality int

const (
	QualityNoise Quality = iota
	QualityMultiUnit
	QualityGood
	QualityUnsorted
)

// ParseQuality maps a sorter label string to a Quality. Unknown labels
// parse as unsorted.
func ParseQuality(label string) Quality {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "noise":
		return QualityNoise
	case "mua":
		return QualityMultiUnit
	case "good":
		return QualityGood
	default:
		return QualityUnsorted
	}
}

func (q Quality) String() string {
	switch q {
	case QualityNoise:
		return "noise"
	case QualityMultiUnit:
		return "mua"
	case QualityGood:
		return "good"
	default:
		return "unsorted"
	}
}

// ClusterInfo maps one unit to its assigned channel index in the
// sorter's internal channel ordering.
type ClusterInfo struct {
	Unit    UnitID `json:"unit"`
	Channel int    `json:"channel"`
}

// ClusterSets holds the selectable cluster subsets of one recording.
// Isolated is nil (not merely empty) when curation has not run.
type ClusterSets struct {
	All      []ClusterInfo
	Good     []ClusterInfo
	Isolated []ClusterInfo
}

// SpikeTable is one recording's sorted spike data.
//
// Templates is [unit-1][time][channel]; PCFeatures is
// [spike][pc][localChannel] with PCFeatureIndex[unit-1] mapping local
// channel positions to channel indices. Any of the feature fields may
// be nil when the sorter output lacks them.
type SpikeTable struct {
	Times      []float64 // spike times in samples
	Units      []UnitID  // unit assignment per spike
	SampleRate float64

	Templates      [][][]float64
	PCFeatures     [][][]float64
	PCFeatureIndex [][]int

	// TempScalingAmps is the per-spike template scaling amplitude; nil
	// means unscaled.
	TempScalingAmps []float64

	// ChanMap maps channel index to physical channel ID.
	ChanMap []int
}

// UnitSpikeIndexes returns the indexes of all spikes assigned to unit.
func (t *SpikeTable) UnitSpikeIndexes(unit UnitID) []int {
	var out []int
	for i, u := range t.Units {
		if u == unit {
			out = append(out, i)
		}
	}
	return out
}

// TemplateWaveform returns unit's template on one channel, or a
// NaN-filled vector when the unit or channel is out of bounds.
func (t *SpikeTable) TemplateWaveform(unit UnitID, channel int) []float64 {
	i := int(unit) - 1
	if i < 0 || i >= len(t.Templates) {
		return NaNVector(WaveformSamples)
	}
	temp := t.Templates[i]
	if len(temp) == 0 || channel < 0 || channel >= len(temp[0]) {
		return NaNVector(WaveformSamples)
	}
	wf := make([]float64, len(temp))
	for s := range temp {
		wf[s] = temp[s][channel]
	}
	return wf
}

// WaveformSamples is the template length in samples used when a real
// waveform cannot be recovered.
const WaveformSamples = 61

// NaNVector returns a length-n vector of NaN.
func NaNVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = math.NaN()
	}
	return v
}

// EventTable holds one recording's named behavioral event timestamp
// arrays, indexed by local trial index.
type EventTable struct {
	fields map[string][]float64
}

// NewEventTable builds an event table from named timestamp arrays.
func NewEventTable(fields map[string][]float64) *EventTable {
	if fields == nil {
		fields = map[string][]float64{}
	}
	return &EventTable{fields: fields}
}

// Field returns the timestamp array for one event name. A missing
// field is ErrFieldAbsent, distinct from a present-but-empty array.
func (t *EventTable) Field(name string) ([]float64, error) {
	v, ok := t.fields[name]
	if !ok {
		return nil, ErrFieldAbsent
	}
	return v, nil
}

// Trial is one behavioral trial. Index is the 1-indexed position
// within the trial's source recording; Events carries the per-trial
// event fields used for reaction times.
type Trial struct {
	Day      string
	Rec      RecordingID
	Index    int
	TaskType string
	Events   map[string]float64
}

// Event returns a per-trial event field value.
func (t Trial) Event(name string) (float64, bool) {
	v, ok := t.Events[name]
	return v, ok
}

// ElecInfo holds per-channel electrode geometry for one probe.
// All slices are parallel, indexed by channel index; any may be empty
// when the metadata is unavailable.
type ElecInfo struct {
	ChanID  []int
	Depth   []float64
	Row     []int
	Col     []int
	X       []float64
	Y       []float64
	ElecNum []int
}

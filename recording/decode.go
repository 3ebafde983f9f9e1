package recording

import "fmt"

// RawSpikes is a drift-corrected spike table in one of the legacy
// storage shapes: a two-column matrix of (time, unit) rows, or a pair
// of parallel arrays. Exactly one variant must be populated; Decode
// normalizes either into the canonical time/unit slices so that no
// shape handling leaks past this point.
type RawSpikes struct {
	// Matrix variant: each row is [spike_time, unit_id].
	Matrix [][]float64

	// Parallel-array variant.
	Times []float64
	Units []int64
}

// Decode validates the populated variant and returns canonical spike
// times and unit assignments. Shape problems are data-integrity errors.
func (r *RawSpikes) Decode() ([]float64, []UnitID, error) {
	hasMatrix := r.Matrix != nil
	hasColumns := r.Times != nil || r.Units != nil

	switch {
	case hasMatrix && hasColumns:
		return nil, nil, fmt.Errorf("raw spikes: both matrix and column variants populated")
	case hasMatrix:
		return r.decodeMatrix()
	case hasColumns:
		return r.decodeColumns()
	default:
		return nil, nil, fmt.Errorf("raw spikes: no variant populated")
	}
}

func (r *RawSpikes) decodeMatrix() ([]float64, []UnitID, error) {
	times := make([]float64, len(r.Matrix))
	units := make([]UnitID, len(r.Matrix))
	for i, row := range r.Matrix {
		if len(row) != 2 {
			return nil, nil, fmt.Errorf("raw spikes: row %d has %d columns, want 2", i, len(row))
		}
		times[i] = row[0]
		units[i] = UnitID(row[1])
	}
	return times, units, nil
}

// NewSpikeTable decodes raw spikes into a table at the given sampling
// rate. Zero or negative rates fall back to the probe default.
func NewSpikeTable(raw *RawSpikes, sampleRate float64) (*SpikeTable, error) {
	times, units, err := raw.Decode()
	if err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		sampleRate = SampleRate
	}
	return &SpikeTable{
		Times:      times,
		Units:      units,
		SampleRate: sampleRate,
	}, nil
}

func (r *RawSpikes) decodeColumns() ([]float64, []UnitID, error) {
	if len(r.Times) != len(r.Units) {
		return nil, nil, fmt.Errorf("raw spikes: %d times but %d units", len(r.Times), len(r.Units))
	}
	times := make([]float64, len(r.Times))
	copy(times, r.Times)
	units := make([]UnitID, len(r.Units))
	for i, u := range r.Units {
		units[i] = UnitID(u)
	}
	return times, units, nil
}

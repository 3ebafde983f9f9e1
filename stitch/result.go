// Package stitch matches the same neuron across recordings by
// correlating firing rate curves and template waveforms.
package stitch

import "github.com/PesaranB/mind-snag/recording"

// Row is one stitched neuron: the matched unit ID per recording, with
// Present marking which recordings contributed a match. Units aligns
// index for index with the stitcher's recording list.
type Row struct {
	Units   []recording.UnitID
	Present []bool
}

// Count returns how many recordings the neuron was found in.
func (r Row) Count() int {
	n := 0
	for _, p := range r.Present {
		if p {
			n++
		}
	}
	return n
}

// Result is the stitch table plus the identifiers it was computed for.
type Result struct {
	Rows  []Row
	Recs  []recording.RecordingID
	Day   string
	Tower string
	Probe int
}

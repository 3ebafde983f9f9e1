package trials

import (
	"errors"
	"math"

	"github.com/PesaranB/mind-snag/config"
	"github.com/PesaranB/mind-snag/logging"
	"github.com/PesaranB/mind-snag/recording"
)

// Extractor pulls trial-aligned spike times from spike and event
// providers.
type Extractor struct {
	spikes recording.SpikeProvider
	events recording.EventProvider
	logger logging.Logger
}

// NewExtractor creates an extractor over the given providers.
func NewExtractor(spikes recording.SpikeProvider, events recording.EventProvider) *Extractor {
	return &Extractor{
		spikes: spikes,
		events: events,
		logger: logging.WithFields(logging.Fields{
			"component": "trial_extractor",
		}),
	}
}

// AlignedSpikes returns, per trial, the unit's spike times in ms
// relative to the named event, restricted to the window. Trials whose
// recording has no spike or event data yield empty slices; a present
// event table that lacks the field is an error so callers can retry
// with a fallback field.
func (e *Extractor) AlignedSpikes(trs []recording.Trial, unit recording.UnitID, eventField string, win config.Window) ([][]float64, error) {
	out := make([][]float64, len(trs))
	for i := range out {
		out[i] = []float64{}
	}
	if len(trs) == 0 {
		return out, nil
	}

	// Group trial positions by recording so each table loads once.
	byRec := make(map[recording.RecordingID][]int)
	for i, tr := range trs {
		byRec[tr.Rec] = append(byRec[tr.Rec], i)
	}

	day := trs[0].Day
	for rec, idxs := range byRec {
		events, err := e.events.Events(day, rec)
		if err != nil {
			if errors.Is(err, recording.ErrNotFound) {
				e.logger.Debug("no events for recording, skipping trials", logging.Fields{
					"day": day, "rec": rec,
				})
				continue
			}
			return nil, err
		}
		field, err := events.Field(eventField)
		if err != nil {
			return nil, err
		}

		sp, err := e.spikes.Spikes(day, rec)
		if err != nil {
			if errors.Is(err, recording.ErrNotFound) {
				e.logger.Debug("no spikes for recording, skipping trials", logging.Fields{
					"day": day, "rec": rec,
				})
				continue
			}
			return nil, err
		}

		for _, i := range idxs {
			out[i] = alignTrial(sp, field, trs[i].Index, unit, win)
		}
	}

	return out, nil
}

// alignTrial extracts one trial's spike times in ms relative to its
// event. Trial indexes are 1-indexed; a zero or NaN event timestamp
// means the event never occurred.
func alignTrial(sp *recording.SpikeTable, field []float64, trialIndex int, unit recording.UnitID, win config.Window) []float64 {
	idx := trialIndex - 1
	if trialIndex <= 0 {
		idx = 0
	}
	if idx >= len(field) {
		return []float64{}
	}

	eventMs := field[idx]
	if math.IsNaN(eventMs) || eventMs == 0 {
		return []float64{}
	}

	fs := sp.SampleRate
	if fs <= 0 {
		fs = recording.SampleRate
	}
	eventSample := eventMs * fs / 1000.0
	startSample := eventSample + float64(win.Start)*fs/1000.0
	stopSample := eventSample + float64(win.Stop)*fs/1000.0

	aligned := []float64{}
	for i, t := range sp.Times {
		if sp.Units[i] != unit {
			continue
		}
		if t >= startSample && t <= stopSample {
			aligned = append(aligned, (t-eventSample)*1000.0/fs)
		}
	}
	return aligned
}

package trials

import (
	"math"

	"github.com/PesaranB/mind-snag/config"
	"github.com/PesaranB/mind-snag/logging"
	"github.com/PesaranB/mind-snag/recording"
)

// RasterData is one unit's trial-aligned spikes pooled across task
// types, with reaction times where the task defines them and the unit
// IDs of clusters sharing the same channel.
type RasterData struct {
	Unit      recording.UnitID
	Spikes    [][]float64
	RT        []float64
	Neighbors []recording.UnitID
}

// ReactionTimes computes event minus baseline per trial, in ms. Trials
// missing either field get NaN. Empty field names mean the task has no
// reaction time and yield nil.
func ReactionTimes(trs []recording.Trial, eventField, baselineField string) []float64 {
	if eventField == "" || baselineField == "" {
		return nil
	}
	rt := make([]float64, len(trs))
	for i, tr := range trs {
		ev, okEv := tr.Event(eventField)
		bl, okBl := tr.Event(baselineField)
		if okEv && okBl {
			rt[i] = ev - bl
		} else {
			rt[i] = math.NaN()
		}
	}
	return rt
}

// TaskRasters aligns the task's trials to its primary event, falling
// back to the fallback event when the primary field is absent from the
// event tables. Tasks without a fallback degrade to empty rasters.
func (e *Extractor) TaskRasters(trs []recording.Trial, unit recording.UnitID, tt TaskType) ([][]float64, []float64) {
	win := config.Window{Start: tt.WindowStart, Stop: tt.WindowStop}

	spikes, err := e.AlignedSpikes(trs, unit, tt.PrimaryEvent, win)
	if err == nil {
		return spikes, ReactionTimes(trs, tt.RTEvent, tt.RTBaseline)
	}

	if tt.FallbackEvent != "" {
		spikes, fbErr := e.AlignedSpikes(trs, unit, tt.FallbackEvent, win)
		if fbErr == nil {
			rtEvent := tt.RTFallbackEvent
			if rtEvent == "" {
				rtEvent = tt.RTEvent
			}
			rtBaseline := tt.RTFallbackBaseline
			if rtBaseline == "" {
				rtBaseline = tt.RTBaseline
			}
			return spikes, ReactionTimes(trs, rtEvent, rtBaseline)
		}
		err = fbErr
	}

	e.logger.Warn("task alignment failed, returning empty rasters", logging.Fields{
		"task": tt.Name, "unit": unit, "error": err.Error(),
	})
	empty := make([][]float64, len(trs))
	rt := make([]float64, len(trs))
	for i := range empty {
		empty[i] = []float64{}
		rt[i] = math.NaN()
	}
	return empty, rt
}

// ExtractRasters pools trial-aligned spikes across all task types for
// one unit. Trials are bucketed by task, aligned per the task table,
// and concatenated in table order. Units with no spikes at all yield
// an empty RasterData.
func (e *Extractor) ExtractRasters(trs []recording.Trial, unit recording.UnitID, neighbors []recording.UnitID) RasterData {
	data := RasterData{Unit: unit, Neighbors: neighbors}

	buckets := Categorize(trs)
	for _, tt := range TaskTypes {
		taskTrials := buckets[tt.Name]
		if len(taskTrials) == 0 {
			continue
		}
		spikes, rt := e.TaskRasters(taskTrials, unit, tt)
		data.Spikes = append(data.Spikes, spikes...)
		data.RT = append(data.RT, rt...)
	}
	return data
}

// Package trials aligns spike times to behavioral trial events.
package trials

import "github.com/PesaranB/mind-snag/recording"

// TaskType describes how to align one behavioral task: which event to
// center the window on, the window itself, and which event pair yields
// the reaction time. Fallback fields are tried when the primary event
// field is missing from the recording's event tables.
type TaskType struct {
	Name        string
	PyTaskTypes []string

	PrimaryEvent  string
	FallbackEvent string
	WindowStart   int
	WindowStop    int

	RTEvent            string
	RTBaseline         string
	RTFallbackEvent    string
	RTFallbackBaseline string
}

// TaskTypes is the known task table. Order matters: trials are matched
// against it first to last.
var TaskTypes = []TaskType{
	{
		Name:               "CO",
		PyTaskTypes:        []string{"delayed_saccade"},
		PrimaryEvent:       "TargsOn",
		FallbackEvent:      "disTargsOn",
		WindowStart:        -300,
		WindowStop:         500,
		RTEvent:            "SaccStart",
		RTBaseline:         "TargsOn",
		RTFallbackEvent:    "SaccStart",
		RTFallbackBaseline: "disTargsOn",
	},
	{
		Name:               "Lum",
		PyTaskTypes:        []string{"luminance_reward_selection"},
		PrimaryEvent:       "disGo",
		FallbackEvent:      "Go",
		WindowStart:        -300,
		WindowStop:         500,
		RTEvent:            "SaccStart",
		RTBaseline:         "disGo",
		RTFallbackEvent:    "SaccStart",
		RTFallbackBaseline: "Go",
	},
	{
		Name:         "Reach",
		PyTaskTypes:  []string{"delayed_reach_and_saccade", "delayed_reach", "gaze_anchoring"},
		PrimaryEvent: "ReachStart",
		WindowStart:  -400,
		WindowStop:   400,
		RTEvent:      "ReachStart",
		RTBaseline:   "TargsOn",
	},
	{
		Name:               "GAF",
		PyTaskTypes:        []string{"gaze_anchoring_fast"},
		PrimaryEvent:       "disTargsOn",
		FallbackEvent:      "TargsOn",
		WindowStart:        -300,
		WindowStop:         500,
		RTEvent:            "SaccStart",
		RTBaseline:         "disGo",
		RTFallbackEvent:    "SaccStart",
		RTFallbackBaseline: "Go",
	},
	{
		Name:               "Saccade",
		PyTaskTypes:        []string{"doublestep_saccade_fast"},
		PrimaryEvent:       "disTargsOn",
		FallbackEvent:      "TargsOn",
		WindowStart:        -300,
		WindowStop:         500,
		RTEvent:            "SaccStart",
		RTBaseline:         "disGo",
		RTFallbackEvent:    "SaccStart",
		RTFallbackBaseline: "Go",
	},
	{
		Name:               "Touch_feed",
		PyTaskTypes:        []string{"simple_touch_task_feedback"},
		PrimaryEvent:       "disTargsOn",
		FallbackEvent:      "TargsOn",
		WindowStart:        -300,
		WindowStop:         500,
		RTEvent:            "SaccStart",
		RTBaseline:         "disGo",
		RTFallbackEvent:    "SaccStart",
		RTFallbackBaseline: "Go",
	},
	{
		Name:               "Touch",
		PyTaskTypes:        []string{"simple_touch_task"},
		PrimaryEvent:       "disTargsOn",
		FallbackEvent:      "TargsOn",
		WindowStart:        -300,
		WindowStop:         500,
		RTEvent:            "SaccStart",
		RTBaseline:         "disGo",
		RTFallbackEvent:    "SaccStart",
		RTFallbackBaseline: "Go",
	},
	{
		Name:         "Null",
		PyTaskTypes:  []string{"null"},
		PrimaryEvent: "Pulse_start",
		WindowStart:  -300,
		WindowStop:   500,
	},
}

// Categorize buckets trials by task name. Trials with an empty task
// type string fall back to the Reach bucket; unknown non-empty types
// are dropped.
func Categorize(trs []recording.Trial) map[string][]recording.Trial {
	out := make(map[string][]recording.Trial, len(TaskTypes))
	for _, tt := range TaskTypes {
		out[tt.Name] = nil
	}

	for _, tr := range trs {
		matched := false
		for _, tt := range TaskTypes {
			for _, pt := range tt.PyTaskTypes {
				if tr.TaskType == pt {
					out[tt.Name] = append(out[tt.Name], tr)
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched && tr.TaskType == "" {
			out["Reach"] = append(out["Reach"], tr)
		}
	}
	return out
}

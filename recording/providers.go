package recording

import "errors"

// ErrNotFound reports that a provider has no data for the requested
// (day, recording). Distinct from returning empty data.
var ErrNotFound = errors.New("recording: not found")

// ErrFieldAbsent reports that an event table exists but lacks the
// requested field.
var ErrFieldAbsent = errors.New("recording: event field absent")

// SpikeProvider supplies sorted spike tables per recording.
type SpikeProvider interface {
	Spikes(day string, rec RecordingID) (*SpikeTable, error)
}

// EventProvider supplies behavioral event tables per recording.
type EventProvider interface {
	Events(day string, rec RecordingID) (*EventTable, error)
}

// QualityProvider maps unit IDs to sorter quality labels.
type QualityProvider interface {
	Quality(unit UnitID) (Quality, bool)
}

// ElecInfoProvider supplies electrode geometry for a probe. A provider
// may return an empty ElecInfo when metadata is unavailable; the
// stitcher then degrades to single-channel neighborhoods.
type ElecInfoProvider interface {
	ElecInfo(day string, rec RecordingID) (*ElecInfo, error)
}

// StaticSpikes is an in-memory SpikeProvider keyed by recording.
type StaticSpikes map[RecordingID]*SpikeTable

func (s StaticSpikes) Spikes(day string, rec RecordingID) (*SpikeTable, error) {
	t, ok := s[rec]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// StaticEvents is an in-memory EventProvider keyed by recording.
type StaticEvents map[RecordingID]*EventTable

func (s StaticEvents) Events(day string, rec RecordingID) (*EventTable, error) {
	t, ok := s[rec]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

// StaticQualities is an in-memory QualityProvider.
type StaticQualities map[UnitID]Quality

func (s StaticQualities) Quality(unit UnitID) (Quality, bool) {
	q, ok := s[unit]
	return q, ok
}

// StaticElecInfo is an ElecInfoProvider returning one fixed geometry.
type StaticElecInfo struct {
	Info *ElecInfo
}

func (s StaticElecInfo) ElecInfo(day string, rec RecordingID) (*ElecInfo, error) {
	if s.Info == nil {
		return &ElecInfo{}, nil
	}
	return s.Info, nil
}

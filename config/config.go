package config

import "fmt"

// ClusterType selects which cluster subset the pipeline operates on.
type ClusterType string

const (
	// ClusterAll processes every sorted cluster.
	ClusterAll ClusterType = "All"

	// ClusterGood processes only sorter-confirmed good clusters.
	ClusterGood ClusterType = "Good"

	// ClusterIsolated processes only clusters previously flagged as
	// isolated by curation.
	ClusterIsolated ClusterType = "Isolated"
)

// Window is an inclusive time window in milliseconds around an
// alignment event.
type Window struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// Len returns the number of one-millisecond bins the window spans.
func (w Window) Len() int {
	return w.Stop - w.Start + 1
}

// Valid reports whether the window is non-empty.
func (w Window) Valid() bool {
	return w.Stop >= w.Start
}

// StitchingConfig configures cross-recording neuron stitching.
type StitchingConfig struct {
	// FRCorrThreshold is the minimum firing-rate correlation for a match.
	FRCorrThreshold float64 `json:"fr_corr_threshold"`

	// WFCorrThreshold is the minimum waveform correlation for a match.
	WFCorrThreshold float64 `json:"wf_corr_threshold"`

	// MinRecordings is the minimum number of recordings a stitched
	// neuron must appear in to be kept.
	MinRecordings int `json:"min_recordings"`

	// ChannelRange bounds the candidate search to electrodes within
	// +-ChannelRange electrode numbers of the seed channel.
	ChannelRange int `json:"channel_range"`

	// Workers is the number of goroutines processing channels in
	// parallel. Zero or one means sequential.
	Workers int `json:"workers,omitempty"`
}

// RasterConfig configures trial-aligned raster and PSTH extraction.
type RasterConfig struct {
	Window    Window  `json:"time_window"`
	Smoothing float64 `json:"smoothing"` // Gaussian kernel std in ms
}

// IsolationConfig configures isolation scoring.
type IsolationConfig struct {
	WindowSec float64 `json:"window_sec"` // segment length in seconds
}

// CurationConfig holds thresholds for auto-curation.
type CurationConfig struct {
	LRatioThreshold  float64 `json:"l_ratio_threshold"`
	ISIViolationRate float64 `json:"isi_violation_rate"`
	IsolatedTRatio   float64 `json:"isolated_t_ratio"`
}

// Config is the central pipeline configuration. Every component takes
// the parameters it needs explicitly; nothing reads ambient state.
type Config struct {
	// ChannelAlpha weights waveform energy against PC coverage in the
	// channel profiler's combined score. 1.0 means energy only; the
	// coverage vetoes apply regardless.
	ChannelAlpha float64 `json:"channel_alpha"`

	// ClusterType selects the cluster subset fed to the stitcher.
	ClusterType ClusterType `json:"cluster_type"`

	Stitching StitchingConfig `json:"stitching"`
	Raster    RasterConfig    `json:"raster"`
	Isolation IsolationConfig `json:"isolation"`
	Curation  CurationConfig  `json:"curation"`
}

// DefaultConfig returns the reference parameter set.
func DefaultConfig() *Config {
	return &Config{
		ChannelAlpha: 1.0,
		ClusterType:  ClusterAll,
		Stitching: StitchingConfig{
			FRCorrThreshold: 0.85,
			WFCorrThreshold: 0.85,
			MinRecordings:   2,
			ChannelRange:    10,
		},
		Raster: RasterConfig{
			Window:    Window{Start: -300, Stop: 500},
			Smoothing: 10,
		},
		Isolation: IsolationConfig{
			WindowSec: 100,
		},
		Curation: CurationConfig{
			LRatioThreshold:  0.2,
			ISIViolationRate: 0.2,
			IsolatedTRatio:   0.6,
		},
	}
}

// Validate checks the configuration for caller misuse. Errors here are
// fatal to the run; data problems never surface through Validate.
func (c *Config) Validate() error {
	switch c.ClusterType {
	case ClusterAll, ClusterGood, ClusterIsolated:
	default:
		return fmt.Errorf("cluster type must be %q, %q, or %q: got %q",
			ClusterAll, ClusterGood, ClusterIsolated, c.ClusterType)
	}

	if c.ChannelAlpha < 0 || c.ChannelAlpha > 1 {
		return fmt.Errorf("channel alpha must be in [0, 1]: %f", c.ChannelAlpha)
	}

	if t := c.Stitching.FRCorrThreshold; t < 0 || t > 1 {
		return fmt.Errorf("firing-rate correlation threshold must be in [0, 1]: %f", t)
	}
	if t := c.Stitching.WFCorrThreshold; t < 0 || t > 1 {
		return fmt.Errorf("waveform correlation threshold must be in [0, 1]: %f", t)
	}
	if c.Stitching.MinRecordings < 1 {
		return fmt.Errorf("min recordings must be positive: %d", c.Stitching.MinRecordings)
	}
	if c.Stitching.ChannelRange < 0 {
		return fmt.Errorf("channel range must be non-negative: %d", c.Stitching.ChannelRange)
	}
	if c.Stitching.Workers < 0 {
		return fmt.Errorf("workers must be non-negative: %d", c.Stitching.Workers)
	}

	if !c.Raster.Window.Valid() {
		return fmt.Errorf("raster window is empty: [%d, %d]", c.Raster.Window.Start, c.Raster.Window.Stop)
	}
	if c.Raster.Smoothing <= 0 {
		return fmt.Errorf("raster smoothing must be positive: %f", c.Raster.Smoothing)
	}

	if c.Isolation.WindowSec <= 0 {
		return fmt.Errorf("isolation window must be positive: %f", c.Isolation.WindowSec)
	}

	return nil
}

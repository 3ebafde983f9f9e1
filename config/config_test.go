package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsMisuse(t *testing.T) {
	cases := map[string]func(*Config){
		"bad cluster type": func(c *Config) { c.ClusterType = "Some" },
		"alpha too big":    func(c *Config) { c.ChannelAlpha = 1.5 },
		"fr threshold":     func(c *Config) { c.Stitching.FRCorrThreshold = -0.1 },
		"wf threshold":     func(c *Config) { c.Stitching.WFCorrThreshold = 2 },
		"min recordings":   func(c *Config) { c.Stitching.MinRecordings = 0 },
		"channel range":    func(c *Config) { c.Stitching.ChannelRange = -1 },
		"workers":          func(c *Config) { c.Stitching.Workers = -2 },
		"empty window":     func(c *Config) { c.Raster.Window = Window{Start: 10, Stop: 5} },
		"zero smoothing":   func(c *Config) { c.Raster.Smoothing = 0 },
		"isolation window": func(c *Config) { c.Isolation.WindowSec = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWindowLen(t *testing.T) {
	w := Window{Start: -300, Stop: 500}
	assert.Equal(t, 801, w.Len())
	assert.True(t, w.Valid())

	assert.False(t, Window{Start: 1, Stop: 0}.Valid())
}

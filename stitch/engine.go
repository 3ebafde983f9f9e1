package stitch

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/PesaranB/mind-snag/algorithms/stats"
	"github.com/PesaranB/mind-snag/config"
	"github.com/PesaranB/mind-snag/logging"
	"github.com/PesaranB/mind-snag/recording"
)

// Inputs holds everything a stitch run needs: the cluster inventory
// per recording, the probe geometry and the feature source.
type Inputs struct {
	Day   string
	Tower string
	Probe int

	// Recs orders the recordings; stitched rows index into it.
	Recs []recording.RecordingID

	// Clusters lists each recording's selected clusters. Channel is a
	// logical channel index into ChanMap.
	Clusters map[recording.RecordingID][]recording.ClusterInfo

	// ChanMap maps logical channel indexes to physical channel IDs.
	ChanMap []int

	// Elec is the probe's electrode geometry; nil degrades candidate
	// search to single-channel neighborhoods.
	Elec *recording.ElecInfo

	Features FeatureSource
}

// Stitcher matches neurons across recordings channel by channel.
type Stitcher struct {
	cfg    config.StitchingConfig
	in     Inputs
	logger logging.Logger
}

// NewStitcher validates the configuration and inputs.
func NewStitcher(cfg config.StitchingConfig, in Inputs) (*Stitcher, error) {
	if len(in.Recs) == 0 {
		return nil, fmt.Errorf("stitch: no recordings")
	}
	if len(in.ChanMap) == 0 {
		return nil, fmt.Errorf("stitch: empty channel map")
	}
	if cfg.MinRecordings < 1 || cfg.MinRecordings > len(in.Recs) {
		return nil, fmt.Errorf("stitch: min recordings %d out of range for %d recordings",
			cfg.MinRecordings, len(in.Recs))
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Stitcher{
		cfg: cfg,
		in:  in,
		logger: logging.WithFields(logging.Fields{
			"component": "stitcher",
			"day":       in.Day,
		}),
	}, nil
}

// Run executes the stitching loop: per physical channel, correlate
// each of its units against candidate units on nearby channels in the
// other recordings, then deduplicate and filter the matched rows.
func (s *Stitcher) Run() (*Result, error) {
	chans := s.unionChannels()
	s.logger.Info("stitching", logging.Fields{
		"channels":   len(chans),
		"recordings": len(s.in.Recs),
	})

	perChan := make([][]Row, len(chans))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perChan[i] = s.stitchChannel(chans[i])
			}
		}()
	}
	for i := range chans {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Merge in ascending channel order so dedup keeps a deterministic
	// first occurrence regardless of worker scheduling.
	var rows []Row
	for _, chRows := range perChan {
		rows = append(rows, chRows...)
	}

	rows = dedupRows(rows)
	rows = filterByCount(rows, s.cfg.MinRecordings)

	s.logger.Info("stitching complete", logging.Fields{
		"neurons": len(rows),
	})

	return &Result{
		Rows:  rows,
		Recs:  s.in.Recs,
		Day:   s.in.Day,
		Tower: s.in.Tower,
		Probe: s.in.Probe,
	}, nil
}

// unionChannels returns the distinct physical channel IDs that carry
// at least one selected cluster in any recording, ascending.
func (s *Stitcher) unionChannels() []int {
	seen := make(map[int]bool)
	for _, rec := range s.in.Recs {
		for _, c := range s.in.Clusters[rec] {
			if c.Channel >= 0 && c.Channel < len(s.in.ChanMap) {
				seen[s.in.ChanMap[c.Channel]] = true
			}
		}
	}
	chans := make([]int, 0, len(seen))
	for ch := range seen {
		chans = append(chans, ch)
	}
	sort.Ints(chans)
	return chans
}

// unitsOnChannel returns each recording's selected units whose logical
// channel maps to the given physical channel ID.
func (s *Stitcher) unitsOnChannel(channelID int) [][]recording.UnitID {
	out := make([][]recording.UnitID, len(s.in.Recs))
	for i, rec := range s.in.Recs {
		for _, c := range s.in.Clusters[rec] {
			if c.Channel >= 0 && c.Channel < len(s.in.ChanMap) && s.in.ChanMap[c.Channel] == channelID {
				out[i] = append(out[i], c.Unit)
			}
		}
	}
	return out
}

// nearbyChannelIndexes returns the logical channel indexes whose
// electrode lies within the configured range of the given channel's
// electrode. Without geometry the neighborhood is the channel itself.
func (s *Stitcher) nearbyChannelIndexes(channelID int) []int {
	elec := s.in.Elec
	if elec == nil || len(elec.ElecNum) == 0 || channelID < 0 || channelID >= len(elec.ElecNum) {
		var own []int
		for i, id := range s.in.ChanMap {
			if id == channelID {
				own = append(own, i)
			}
		}
		return own
	}

	center := elec.ElecNum[channelID]
	var idxs []int
	for i, e := range elec.ElecNum {
		if e >= center-s.cfg.ChannelRange && e <= center+s.cfg.ChannelRange {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// candidate is one nearby unit with its precomputed features.
type candidate struct {
	unit recording.UnitID
	wf   []float64
	rate []float64
}

// stitchChannel builds one stitched row per unit directly on the
// channel, matching it against candidates on nearby channels in every
// other recording.
func (s *Stitcher) stitchChannel(channelID int) []Row {
	nearby := s.nearbyChannelIndexes(channelID)

	// Candidate pool per recording across the neighborhood.
	cands := make([][]candidate, len(s.in.Recs))
	for _, chIdx := range nearby {
		if chIdx < 0 || chIdx >= len(s.in.ChanMap) {
			continue
		}
		perRec := s.unitsOnChannel(s.in.ChanMap[chIdx])
		for i, rec := range s.in.Recs {
			for _, u := range perRec[i] {
				cands[i] = append(cands[i], candidate{
					unit: u,
					wf:   s.in.Features.Waveform(rec, u),
					rate: s.in.Features.FiringRate(rec, u),
				})
			}
		}
	}

	current := s.unitsOnChannel(channelID)

	var rows []Row
	for i, rec := range s.in.Recs {
		for _, unit := range current[i] {
			rate := s.in.Features.FiringRate(rec, unit)
			wf := s.in.Features.Waveform(rec, unit)

			row := Row{
				Units:   make([]recording.UnitID, len(s.in.Recs)),
				Present: make([]bool, len(s.in.Recs)),
			}
			row.Units[i] = unit
			row.Present[i] = true

			for j := range s.in.Recs {
				if j == i || len(cands[j]) == 0 {
					continue
				}
				if match, ok := s.bestMatch(rate, wf, cands[j]); ok {
					row.Units[j] = match
					row.Present[j] = true
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// bestMatch picks the candidate with the highest firing rate
// correlation and accepts it only when both the rate and waveform
// correlations clear their thresholds.
func (s *Stitcher) bestMatch(rate, wf []float64, cands []candidate) (recording.UnitID, bool) {
	frCorrs := make([]float64, len(cands))
	for k, c := range cands {
		frCorrs[k] = stats.PairwiseCorrelation(rate, c.rate)
	}

	best := stats.ArgMaxNaNLow(frCorrs)
	if best < 0 {
		return 0, false
	}
	// NaN correlations never clear a threshold.
	if !(frCorrs[best] >= s.cfg.FRCorrThreshold) {
		return 0, false
	}
	wfCorr := stats.PairwiseCorrelation(wf, cands[best].wf)
	if !(wfCorr >= s.cfg.WFCorrThreshold) {
		return 0, false
	}
	return cands[best].unit, true
}

// dedupRows drops duplicate rows, keeping the first occurrence. Rows
// are equal when their non-missing entries coincide; unit IDs are
// strictly positive so zero marks a missing slot unambiguously.
func dedupRows(rows []Row) []Row {
	seen := make(map[string]bool, len(rows))
	out := rows[:0:0]
	for _, r := range rows {
		var key strings.Builder
		for j, u := range r.Units {
			if !r.Present[j] {
				u = 0
			}
			key.WriteString(strconv.FormatInt(int64(u), 10))
			key.WriteByte(',')
		}
		k := key.String()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func filterByCount(rows []Row, minRecs int) []Row {
	out := rows[:0:0]
	for _, r := range rows {
		if r.Count() >= minRecs {
			out = append(out, r)
		}
	}
	return out
}

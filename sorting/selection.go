package sorting

import (
	"fmt"

	"github.com/PesaranB/mind-snag/config"
	"github.com/PesaranB/mind-snag/recording"
)

// SelectClusters picks the cluster subset matching the requested type.
// Requesting isolated clusters before curation has populated them is
// an error.
func SelectClusters(sets recording.ClusterSets, t config.ClusterType) ([]recording.ClusterInfo, error) {
	switch t {
	case config.ClusterAll:
		return sets.All, nil
	case config.ClusterGood:
		return sets.Good, nil
	case config.ClusterIsolated:
		if sets.Isolated == nil {
			return nil, fmt.Errorf("isolated clusters unavailable: run curation first")
		}
		return sets.Isolated, nil
	default:
		return nil, fmt.Errorf("unknown cluster type %q", t)
	}
}

// FilterGood keeps the clusters whose units the quality provider
// labels good. Units without a quality label are dropped.
func FilterGood(all []recording.ClusterInfo, qp recording.QualityProvider) []recording.ClusterInfo {
	good := make([]recording.ClusterInfo, 0, len(all))
	for _, c := range all {
		q, ok := qp.Quality(c.Unit)
		if ok && q == recording.QualityGood {
			good = append(good, c)
		}
	}
	return good
}

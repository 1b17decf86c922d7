package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	cl := c.Clustering
	check(cl.MinClusters >= 1, "clustering.min_clusters must be at least 1, got %d", cl.MinClusters)
	check(cl.MaxClusters >= cl.MinClusters, "clustering.max_clusters (%d) below min_clusters (%d)", cl.MaxClusters, cl.MinClusters)
	check(cl.ClusterRatio >= 1, "clustering.cluster_ratio must be at least 1, got %d", cl.ClusterRatio)
	check(cl.NInit >= 1, "clustering.n_init must be at least 1, got %d", cl.NInit)
	check(cl.MaxIterations >= 1, "clustering.max_iterations must be at least 1, got %d", cl.MaxIterations)

	check(c.Distance.FontSizeTolerance >= 0, "distance.font_size_tolerance must not be negative")
	check(c.Distance.GroupingDistance >= 0, "distance.grouping_distance must not be negative")

	w := c.Accuracy.Weights
	check(w.Structural >= 0 && w.Semantic >= 0 && w.Typography >= 0 && w.Position >= 0 && w.Multilingual >= 0,
		"accuracy.weights must not be negative")
	check(w.Sum() > 0, "accuracy.weights must not all be zero")
	check(c.Accuracy.ThresholdMin <= c.Accuracy.ThresholdMax,
		"accuracy.threshold_min (%.2f) above threshold_max (%.2f)", c.Accuracy.ThresholdMin, c.Accuracy.ThresholdMax)

	check(c.Performance.MaxWorkers >= 1, "performance.max_workers must be at least 1, got %d", c.Performance.MaxWorkers)
	check(c.Profile.SamplePages >= 1, "profile.sample_pages must be at least 1, got %d", c.Profile.SamplePages)
	check(c.Multimodal.BoxScale > 0, "multimodal.box_scale must be positive")

	return errors.Join(errs...)
}
